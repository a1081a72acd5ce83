package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "debtledger-cli",
		Short: "DebtLedger CLI tool",
		Long:  `A command line interface for interacting with the DebtLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the DebtLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Amount commands
	amountsCmd := &cobra.Command{
		Use:   "amounts",
		Short: "Incoming amount operations",
	}

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search incoming amounts by one criterion",
		Run: func(cmd *cobra.Command, args []string) {
			criterion, _ := cmd.Flags().GetString("by")
			value, _ := cmd.Flags().GetString("value")
			searchAmounts(criterion, value)
		},
	}
	searchCmd.Flags().String("by", "our_ref", "Criterion: our_ref, bank_ref, name, client_id or iban")
	searchCmd.Flags().String("value", "", "Value to search for")
	_ = searchCmd.MarkFlagRequired("value")

	targetsCmd := &cobra.Command{
		Use:   "targets [amount-id]",
		Short: "List the bills an amount could settle",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/amounts/" + url.PathEscape(args[0]) + "/targets")
		},
	}

	assignCmd := &cobra.Command{
		Use:   "assign [amount-id]",
		Short: "Run automatic settlement for an amount",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/amounts/"+url.PathEscape(args[0])+"/assign", nil)
		},
	}

	reversibleCmd := &cobra.Command{
		Use:   "reversible [amount-id]",
		Short: "List the credits a debit could be the reversal of",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/amounts/" + url.PathEscape(args[0]) + "/reversible")
		},
	}

	amountsCmd.AddCommand(searchCmd, targetsCmd, assignCmd, reversibleCmd)
	rootCmd.AddCommand(amountsCmd)

	// Queue commands
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Queue operations",
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Re-drive pending queue entries",
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/queue/sweep", nil)
		},
	}

	queueCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(queueCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func searchAmounts(criterion, value string) {
	q := url.Values{}
	q.Set(criterion, value)
	getJSON("/api/v1/amounts/?" + q.Encode())
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, payload any) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(data)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", body)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(data))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return
	}

	fmt.Println(pretty.String())
}
