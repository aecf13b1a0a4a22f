package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lialabs/liad/internal/config"
	"github.com/lialabs/liad/internal/statestore"
)

// interactCmd sends one interaction through the pipeline
var interactCmd = &cobra.Command{
	Use:   "interact [content]",
	Short: "Send an interaction to the agent",
	Long: `Send one interaction through the agent's pipeline and print the response.

Examples:
  # Send a message
  liad interact "tell me about yourself"

  # Read the message from stdin
  echo "hello" | liad interact -

  # Use a different server
  liad interact --server http://localhost:8080 "hello"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInteract,
}

// stateCmd prints the agent's current consciousness state
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the agent's current state",
	Long: `Fetch and print the agent's consciousness state as JSON.

By default the state is read from a running daemon. With --offline the
latest persisted snapshot is read straight from the state store, and
--history prints the last N snapshots instead.

Examples:
  # Show live state
  liad state

  # Read the persisted snapshot without a daemon
  liad state --offline

  # Show the last five persisted snapshots
  liad state --history 5`,
	RunE: runState,
}

var (
	stateOffline bool
	stateHistory int
)

func init() {
	stateCmd.Flags().BoolVar(&stateOffline, "offline", false, "read the snapshot from the state store instead of the daemon")
	stateCmd.Flags().IntVar(&stateHistory, "history", 0, "print the last N persisted snapshots (implies --offline)")
}

// evolveCmd advances the agent's evolution stage
var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Advance the agent's evolution stage",
	RunE:  runEvolve,
}

// InteractionRequest matches internal/httpapi/handlers.go InteractionRequest
type InteractionRequest struct {
	Content string `json:"content"`
	Source  string `json:"source,omitempty"`
}

// interactionReply carries the response fields the CLI prints.
type interactionReply struct {
	Content            string  `json:"content"`
	QuantumCoherence   float64 `json:"quantum_coherence"`
	ConsciousnessLevel float64 `json:"consciousness_level"`
	EmotionalLayer     struct {
		Primary   string  `json:"primary"`
		Intensity float64 `json:"intensity"`
	} `json:"emotional_layer"`
}

func runInteract(cmd *cobra.Command, args []string) error {
	var content []byte
	var err error

	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content = []byte(args[0])
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return fmt.Errorf("no content to send")
	}

	reqJSON, err := json.Marshal(InteractionRequest{
		Content: string(content),
		Source:  "cli",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := doRequest(http.MethodPost, "/v1/interactions", reqJSON, 30*time.Second)
	if err != nil {
		return err
	}

	var reply interactionReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Println(reply.Content)
	fmt.Fprintf(os.Stderr, "[liad] coherence=%.3f consciousness=%.3f emotion=%s(%.2f)\n",
		reply.QuantumCoherence, reply.ConsciousnessLevel,
		reply.EmotionalLayer.Primary, reply.EmotionalLayer.Intensity)
	return nil
}

func runState(cmd *cobra.Command, args []string) error {
	if stateOffline || stateHistory > 0 {
		return runStateOffline()
	}
	body, err := doRequest(http.MethodGet, "/v1/state", nil, 5*time.Second)
	if err != nil {
		return err
	}
	return printJSON(body)
}

// runStateOffline reads persisted snapshots from the configured state store.
func runStateOffline() error {
	cfg, err := config.LoadWithFile(configFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if !cfg.State.Enabled {
		return fmt.Errorf("state persistence is disabled in the configuration")
	}

	store, err := statestore.NewStore(cfg.State, zap.NewNop())
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if stateHistory > 0 {
		snaps, err := store.History(ctx, stateHistory)
		if err != nil {
			return fmt.Errorf("reading snapshot history: %w", err)
		}
		body, err := json.Marshal(snaps)
		if err != nil {
			return err
		}
		return printJSON(body)
	}

	snap, err := store.Latest(ctx)
	if errors.Is(err, statestore.ErrNotFound) {
		return fmt.Errorf("no snapshot recorded yet")
	}
	if err != nil {
		return fmt.Errorf("reading latest snapshot: %w", err)
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return printJSON(body)
}

func runEvolve(cmd *cobra.Command, args []string) error {
	body, err := doRequest(http.MethodPost, "/v1/evolve", nil, 10*time.Second)
	if err != nil {
		return err
	}
	return printJSON(body)
}

// doRequest performs one API call and returns the response body, treating
// any non-200 status as an error.
func doRequest(method, path string, payload []byte, timeout time.Duration) ([]byte, error) {
	url := serverURL + path

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// printJSON re-indents a JSON body for terminal output.
func printJSON(body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return nil
	}
	fmt.Println(buf.String())
	return nil
}
