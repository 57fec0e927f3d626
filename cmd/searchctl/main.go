// searchctl is a maintenance CLI for a running search server: force a cache
// refresh, check health, or ask a question from the terminal.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "searchctl",
	Short: "Maintenance commands for the AI search server",
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a rebuild of the link index cache",
	RunE:  runRefresh,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE:  runHealth,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question and print the streamed answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8787", "base URL of the search server")
	rootCmd.AddCommand(refreshCmd, healthCmd, askCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRefresh(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Post(serverURL+"/refresh", "application/json", http.NoBody)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh failed: status %d: %s", resp.StatusCode, string(body))
	}
	fmt.Println(strings.TrimSpace(string(body)))
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d: %s", resp.StatusCode, string(body))
	}
	fmt.Println(strings.TrimSpace(string(body)))
	return nil
}

type resultDTO struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Excerpt string `json:"excerpt"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	payload, err := json.Marshal(map[string]interface{}{
		"messages": []map[string]string{{"role": "user", "content": question}},
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Post(serverURL+"/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("chat failed: status %d: %s", resp.StatusCode, string(body))
	}

	var results []resultDTO
	sawDone := false

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			sawDone = true
			break
		}

		var frame struct {
			Response string      `json:"response"`
			Results  []resultDTO `json:"results"`
		}
		// Malformed frames are skipped, never fatal.
		if err := json.Unmarshal([]byte(data), &frame); err != nil {
			continue
		}
		if frame.Response != "" {
			fmt.Print(frame.Response)
		}
		if len(frame.Results) > 0 {
			results = frame.Results
		}
	}
	fmt.Println()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	if !sawDone {
		return fmt.Errorf("stream ended without done marker")
	}

	if len(results) > 0 {
		fmt.Println("\nSources:")
		for _, r := range results {
			fmt.Printf("- %s\n  %s\n", r.Title, r.URL)
		}
	}
	return nil
}
