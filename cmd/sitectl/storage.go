package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tendant/artist-site/pkg/sitecontent"
)

// NewStorageCommand creates the storage command group
func NewStorageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect the snapshot storage",
	}

	cmd.AddCommand(newStorageCheckCommand())
	cmd.AddCommand(newStorageCatCommand())

	return cmd
}

type probeStep struct {
	name     string
	detail   string
	duration time.Duration
}

func newStorageCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Write, read back and delete a probe object",
		Long: `Verify that the configured snapshot storage (STORAGE_URL) accepts writes
before publishing to it. A probe object is uploaded, read back, compared and
deleted again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			key := fmt.Sprintf(".sitectl/probe-%s.json", uuid.NewString())
			payload := []byte(fmt.Sprintf(`{"probe":%q}`, key))
			var steps []probeStep

			timed := func(name string, fn func() (string, error)) error {
				start := time.Now()
				detail, err := fn()
				steps = append(steps, probeStep{name: name, detail: detail, duration: time.Since(start)})
				return err
			}

			err = timed("upload", func() (string, error) {
				err := e.blobs.UploadWithParams(ctx, bytes.NewReader(payload), sitecontent.UploadParams{
					ObjectKey: key,
					MimeType:  "application/json",
				})
				return key, err
			})
			if err == nil {
				err = timed("stat", func() (string, error) {
					meta, err := e.blobs.GetObjectMeta(ctx, key)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%d bytes, %s", meta.Size, meta.ContentType), nil
				})
			}
			if err == nil {
				err = timed("download", func() (string, error) {
					rc, err := e.blobs.Download(ctx, key)
					if err != nil {
						return "", err
					}
					defer rc.Close()
					data, err := io.ReadAll(rc)
					if err != nil {
						return "", err
					}
					if !bytes.Equal(data, payload) {
						return "", errors.New("probe content mismatch")
					}
					return fmt.Sprintf("%d bytes match", len(data)), nil
				})
			}
			// always try to clean up after a partial run
			delErr := timed("delete", func() (string, error) {
				return key, e.blobs.Delete(ctx, key)
			})

			rows := make([][]string, 0, len(steps))
			for _, s := range steps {
				rows = append(rows, []string{s.name, s.detail, s.duration.Round(time.Microsecond).String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Step", "Detail", "Took"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))

			if err := errors.Join(err, delErr); err != nil {
				return fmt.Errorf("storage check failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Storage %s is writable.\n", e.config.Storage.Type)
			return nil
		},
	}
}

func newStorageCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <key>",
		Short: "Print a stored object, for example the published content.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			rc, err := e.blobs.Download(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			defer rc.Close()

			_, err = io.Copy(cmd.OutOrStdout(), rc)
			return err
		},
	}
}
