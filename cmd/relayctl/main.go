package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var serverURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "relayctl",
		Short: "Operator CLI for the relaydeck coordinator",
	}
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "coordinator base URL")

	rootCmd.AddCommand(agentsCmd(), submitCmd(), commandsCmd(), commandCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type agentRow struct {
	ID         string    `json:"id"`
	Hostname   string    `json:"hostname"`
	Platform   string    `json:"platform"`
	Connected  bool      `json:"connected"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

type commandRow struct {
	ID          string    `json:"id"`
	AgentID     string    `json:"agentId"`
	Text        string    `json:"command"`
	Status      string    `json:"status"`
	Output      string    `json:"output"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func agentsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List agents known to the coordinator",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := "/api/v1/agents"
			if all {
				endpoint += "?all=true"
			}
			var resp struct {
				Agents []agentRow `json:"agents"`
			}
			if err := getJSON(endpoint, &resp); err != nil {
				return err
			}
			if len(resp.Agents) == 0 {
				fmt.Println("no agents")
				return nil
			}
			for _, a := range resp.Agents {
				state := "disconnected"
				if a.Connected {
					state = "connected"
				}
				fmt.Printf("%s\t%s\t%s\t%s\tlast seen %s\n",
					a.ID, a.Hostname, a.Platform, state, a.LastSeenAt.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include agents outside the liveness window")
	return cmd
}

func submitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <agent-id> <command...>",
		Short: "Queue a shell command for an agent",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{
				"agentId": args[0],
				"command": strings.Join(args[1:], " "),
			}
			var resp struct {
				Success   bool   `json:"success"`
				CommandID string `json:"commandId"`
			}
			if err := postJSON("/api/v1/commands", payload, &resp); err != nil {
				return err
			}
			fmt.Println(resp.CommandID)
			return nil
		},
	}
}

func commandsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List recently submitted commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Commands []commandRow `json:"commands"`
			}
			if err := getJSON(fmt.Sprintf("/api/v1/commands?limit=%d", limit), &resp); err != nil {
				return err
			}
			for _, c := range resp.Commands {
				fmt.Printf("%s\t%s\t%s\t%q\n", c.ID, c.AgentID, c.Status, c.Text)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum commands to list")
	return cmd
}

func commandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "command <id>",
		Short: "Show one command and its output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Command commandRow `json:"command"`
			}
			if err := getJSON("/api/v1/commands/"+url.PathEscape(args[0]), &resp); err != nil {
				return err
			}
			c := resp.Command
			fmt.Printf("id:        %s\nagent:     %s\nstatus:    %s\ncommand:   %s\nsubmitted: %s\n",
				c.ID, c.AgentID, c.Status, c.Text, c.SubmittedAt.Format(time.RFC3339))
			if c.Output != "" {
				fmt.Printf("output:\n%s", c.Output)
				if !strings.HasSuffix(c.Output, "\n") {
					fmt.Println()
				}
			}
			return nil
		},
	}
}

func getJSON(endpoint string, out interface{}) error {
	resp, err := http.Get(serverURL + endpoint)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func postJSON(endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := http.Post(serverURL+endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("coordinator: %s", errResp.Error)
		}
		return fmt.Errorf("coordinator returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
