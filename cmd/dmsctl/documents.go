package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kirillkom/filenet-dms-connector/internal/adapters/jobs"
	"github.com/kirillkom/filenet-dms-connector/internal/core/domain"
)

var mimeType string

var createCmd = &cobra.Command{
	Use:   "create [file]",
	Short: "Store a local file as a new document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		metadata, err := parsedAttributes()
		if err != nil {
			return err
		}
		filename := filepath.Base(args[0])
		return send(cmd, jobs.OpCreate, jobs.Request{New: &domain.NewDocument{
			Filename: &filename,
			MimeType: mimeType,
			Content:  content,
			Metadata: metadata,
		}})
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [id]",
	Short: "Read document metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := documentID(args[0])
		if err != nil {
			return err
		}
		return send(cmd, jobs.OpGetInfo, jobs.Request{Document: id})
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Read document content and metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := documentID(args[0])
		if err != nil {
			return err
		}
		return send(cmd, jobs.OpGetData, jobs.Request{Document: id})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [id] [file]",
	Short: "Replace document content from a local file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		id := &domain.DocumentID{Namespace: namespace, ID: args[0], Version: version}
		attrs, err := parsedAttributes()
		if err != nil {
			return err
		}
		return send(cmd, jobs.OpUpdate, jobs.Request{
			Document: id,
			Update: &domain.DocumentUpdate{
				Content:    content,
				MimeType:   mimeType,
				Attributes: attrs,
			},
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := documentID(args[0])
		if err != nil {
			return err
		}
		return send(cmd, jobs.OpDelete, jobs.Request{Document: id})
	},
}

func init() {
	createCmd.Flags().StringVar(&mimeType, "mime-type", "", "content mime type")
	updateCmd.Flags().StringVar(&mimeType, "mime-type", "", "content mime type")
	rootCmd.AddCommand(createCmd, infoCmd, getCmd, updateCmd, deleteCmd)
}
