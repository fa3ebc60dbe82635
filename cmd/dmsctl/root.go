package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/filenet-dms-connector/internal/adapters/jobs"
	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
	natsqueue "github.com/kirillkom/filenet-dms-connector/internal/infrastructure/queue/nats"
	"github.com/kirillkom/filenet-dms-connector/internal/observability/logging"
)

var (
	natsURL       string
	subjectPrefix string
	namespace     string
	version       string
	variables     string
	attributes    string
	timeout       time.Duration
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "dmsctl",
	Short: "Send document jobs to the FileNet connector worker over NATS",
	Long: `dmsctl issues one document job on <prefix>.<operation> and prints the
worker's reply. The workflow context is passed verbatim with --variables.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&natsURL, "nats-url", envOr("NATS_URL", "nats://localhost:4222"), "NATS server URL")
	flags.StringVar(&subjectPrefix, "prefix", envOr("NATS_SUBJECT_PREFIX", "dms.documents"), "subject prefix")
	flags.StringVar(&namespace, "namespace", "", "document namespace (worker default when empty)")
	flags.StringVar(&version, "version", "", "document version")
	flags.StringVar(&variables, "variables", "", `workflow variables JSON, e.g. {"headers":{"uid":"alice"}}`)
	flags.StringVar(&attributes, "attributes", "", `document attributes JSON list, e.g. [{"name":"title","value":"x","type":"TEXT"}]`)
	flags.DurationVar(&timeout, "timeout", time.Minute, "request timeout")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logger() *slog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.New(os.Stderr, "dmsctl", level)
}

func documentID(id string) (*domain.DocumentID, error) {
	doc := &domain.DocumentID{Namespace: namespace, ID: id, Version: version}
	if attributes != "" {
		if err := json.Unmarshal([]byte(attributes), &doc.Attributes); err != nil {
			return nil, fmt.Errorf("parse --attributes: %w", err)
		}
	}
	return doc, nil
}

func parsedAttributes() ([]domain.Attribute, error) {
	if attributes == "" {
		return []domain.Attribute{}, nil
	}
	var out []domain.Attribute
	if err := json.Unmarshal([]byte(attributes), &out); err != nil {
		return nil, fmt.Errorf("parse --attributes: %w", err)
	}
	return out, nil
}

// connectOptions makes a one-shot connection: no retry on the first dial and
// no circuit breaker, since a single request can never trip one.
func connectOptions(log *slog.Logger) natsqueue.Options {
	return natsqueue.Options{
		Name:                 "dmsctl",
		MaxReconnects:        1,
		RetryOnFailedConnect: new(bool),
		Logger:               log,
	}
}

// send publishes the envelope and prints the reply. A failed reply exits
// non-zero.
func send(cmd *cobra.Command, operation string, req jobs.Request) error {
	req.Variables = variables
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}

	log := logger()
	conn, err := natsqueue.Connect(natsURL, subjectPrefix, connectOptions(log))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	log.Debug("dmsctl_request", "subject", conn.Subject(operation), "bytes", len(payload))
	raw, err := conn.Request(ctx, operation, payload)
	if err != nil {
		return err
	}

	var reply jobs.Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("format reply: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.String())

	if !reply.OK {
		return fmt.Errorf("%s failed (%s): %s", operation, reply.Kind, reply.Error)
	}
	return nil
}
