// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AuthGate Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/authgate/authgate/internal/config"
)

// ServiceStatus holds the health information reported by the status command.
type ServiceStatus struct {
	Addr    string `json:"addr"`
	Running bool   `json:"running"`
	Ready   bool   `json:"ready"`
	Error   string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status subcommand.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	scfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of a running AuthGate server",
		Long:  `Query the health endpoints of a running AuthGate server and report liveness and readiness.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(resolveConfigFile(), nil)
			if err != nil {
				return err
			}
			return runStatus(cmd, cfg, scfg)
		},
	}

	cmd.Flags().BoolVar(&scfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, cfg config.Config, scfg *statusConfig) error {
	status := queryServiceStatus(cfg.Listen.MetricsAddr)

	if scfg.jsonOutput {
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	if !status.Running {
		cmd.Printf("authgate: not running (%s)\n", status.Error)
		return nil
	}
	cmd.Printf("authgate: running at %s, ready=%v\n", status.Addr, status.Ready)
	return nil
}

// queryServiceStatus probes the liveness and readiness endpoints on the
// metrics listener.
func queryServiceStatus(metricsAddr string) ServiceStatus {
	if strings.HasPrefix(metricsAddr, ":") {
		metricsAddr = "127.0.0.1" + metricsAddr
	}

	status := ServiceStatus{Addr: metricsAddr}
	client := &http.Client{Timeout: 3 * time.Second}

	resp, err := client.Get("http://" + metricsAddr + "/healthz/liveness")
	if err != nil {
		status.Error = err.Error()
		return status
	}
	_ = resp.Body.Close()
	status.Running = resp.StatusCode == http.StatusOK

	resp, err = client.Get("http://" + metricsAddr + "/healthz/readiness")
	if err != nil {
		status.Error = err.Error()
		return status
	}
	_ = resp.Body.Close()
	status.Ready = resp.StatusCode == http.StatusOK

	return status
}
