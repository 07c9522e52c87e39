package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Global flags
	serverURL string
	timeout   int

	// Ask command flags
	maxChunks int
	maxTokens int
	rawJSON   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "ragctl",
	Short:   "Query the council minutes answer service",
	Version: version,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about council minutes",
	Long: `Ask a question about the indexed council meeting minutes.

The service retrieves relevant document chunks, ranks them with
temporal awareness when the question mentions a year, and generates a
cited answer.

Examples:
  # Ask about a specific year's budget
  ragctl ask "Quel était le budget de la commune en 2023 ?"

  # Limit the number of context chunks
  ragctl ask --max-chunks 3 "Qui était maire en 2019 ?"

  # Print the raw JSON response
  ragctl ask --json "travaux de voirie 2024"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the years covered by the indexed minutes",
	RunE:  runYears,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check service health",
	RunE:  runHealth,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9020", "base URL of the answer service")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 180, "request timeout in seconds")

	askCmd.Flags().IntVar(&maxChunks, "max-chunks", 0, "maximum context chunks (0 uses the server default)")
	askCmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "maximum generated tokens (0 uses the server default)")
	askCmd.Flags().BoolVar(&rawJSON, "json", false, "print the raw JSON response")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(yearsCmd)
	rootCmd.AddCommand(healthCmd)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: time.Duration(timeout) * time.Second}
}

type chatRequest struct {
	Message   string `json:"message"`
	MaxChunks *int   `json:"max_chunks,omitempty"`
	MaxTokens *int   `json:"max_tokens,omitempty"`
}

type sourceResponse struct {
	ChunkID  string  `json:"chunk_id"`
	Filename string  `json:"filename,omitempty"`
	Page     *int    `json:"page,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Excerpt  string  `json:"excerpt"`
	Score    float64 `json:"score"`
}

type searchMetadata struct {
	QueryYear                *int `json:"query_year,omitempty"`
	TemporalFilterApplied    bool `json:"temporal_filter_applied"`
	TemporalWeightingApplied bool `json:"temporal_weighting_applied"`
	OriginalCount            int  `json:"original_count"`
	FilteredCount            int  `json:"filtered_count"`
}

type chatResponse struct {
	Answer         string           `json:"answer"`
	Sources        []sourceResponse `json:"sources"`
	SearchMetadata searchMetadata   `json:"search_metadata"`
	Fallback       bool             `json:"fallback"`
	Reason         string           `json:"reason,omitempty"`
	AnswerID       string           `json:"answer_id"`
	PromptVersion  string           `json:"prompt_version"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	req := chatRequest{Message: args[0]}
	if maxChunks > 0 {
		req.MaxChunks = &maxChunks
	}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := httpClient().Post(serverURL+"/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(payload))
	}

	if rawJSON {
		fmt.Println(string(payload))
		return nil
	}

	var chat chatResponse
	if err := json.Unmarshal(payload, &chat); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Println(chat.Answer)
	if chat.Fallback && chat.Reason != "" {
		fmt.Printf("\n(fallback: %s)\n", chat.Reason)
	}

	if len(chat.Sources) > 0 {
		fmt.Println("\nSources:")
		for i, src := range chat.Sources {
			loc := src.Filename
			if src.Page != nil {
				loc = fmt.Sprintf("%s p.%d", loc, *src.Page)
			}
			if src.Year != nil {
				loc = fmt.Sprintf("%s (%d)", loc, *src.Year)
			}
			fmt.Printf("  [%d] %s score=%.4f\n", i+1, loc, src.Score)
		}
	}

	meta := chat.SearchMetadata
	if meta.QueryYear != nil {
		fmt.Printf("\nSearch: year=%d filtered=%t weighted=%t candidates=%d kept=%d\n",
			*meta.QueryYear, meta.TemporalFilterApplied, meta.TemporalWeightingApplied,
			meta.OriginalCount, meta.FilteredCount)
	}
	return nil
}

func runYears(cmd *cobra.Command, args []string) error {
	resp, err := httpClient().Get(serverURL + "/v1/years")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(payload))
	}

	var result struct {
		Years []int `json:"years"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Years) == 0 {
		fmt.Println("no indexed years")
		return nil
	}
	for _, y := range result.Years {
		fmt.Println(y)
	}
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	resp, err := httpClient().Get(serverURL + "/v1/health")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(payload))
	}
	fmt.Println(string(payload))
	return nil
}
