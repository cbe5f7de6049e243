package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/tendant/artist-site/pkg/sitecontent"
	"github.com/tendant/artist-site/pkg/sitecontent/snapshot"
)

// NewSnapshotCommand creates the snapshot command
func NewSnapshotCommand() *cobra.Command {
	var keys []string
	var stdout bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Generate content.json from the CMS datastore",
		Long: `Read every CMS section, normalize it and write content.json to each
snapshot key. An empty or unreachable datastore produces the default content.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if len(keys) == 0 {
				keys = e.config.SnapshotKeys
			}
			gen := snapshot.New(e.repo, e.blobs,
				snapshot.WithKeys(keys...),
				snapshot.WithLogger(e.logger),
			)

			if stdout {
				data, _, err := gen.Build(ctx)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			result, err := gen.Generate(ctx)
			if result != nil {
				rows := make([][]string, 0, len(result.Keys))
				for _, key := range result.Keys {
					rows = append(rows, []string{key, strconv.Itoa(result.Bytes)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Bytes"}, rows, []columnAlignment{alignLeft, alignRight}))
				if result.UsedDefaults {
					fmt.Fprintln(cmd.OutOrStdout(), "No CMS sections found; wrote default content.")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Sections: %d\n", len(result.Sections))
				}
			}
			if err != nil {
				return fmt.Errorf("snapshot failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&keys, "key", "k", nil, "object key to write (repeatable, default: SNAPSHOT_KEYS)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the snapshot instead of writing it")

	return cmd
}

// NewNormalizeCommand creates the normalize command
func NewNormalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <file|->",
		Short: "Normalize a raw content record",
		Long:  `Read a raw CMS content record from a file (or stdin with "-") and print the normalized content.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			record, err := sitecontent.ParseRecord(data)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), sitecontent.Normalize(record, sitecontent.DefaultContent()))
		},
	}

	return cmd
}

// NewContentCommand creates the content command
func NewContentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Print the content the site currently serves",
		Long: `Fetch the raw record from the configured content source (CONTENT_SOURCE_URL,
or the datastore when unset) and print the normalized content. A failing
source prints the defaults, exactly as the site would render them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			src, err := e.config.BuildSource(e.repo, e.blobs)
			if err != nil {
				return err
			}

			loader := sitecontent.NewLoader(src, sitecontent.WithLogger(e.logger))
			return writeJSON(cmd.OutOrStdout(), loader.Load(ctx))
		},
	}

	return cmd
}

// NewSectionsCommand creates the sections command group
func NewSectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections",
		Short: "Manage CMS sections",
	}

	cmd.AddCommand(newSectionsListCommand())
	cmd.AddCommand(newSectionsGetCommand())
	cmd.AddCommand(newSectionsPutCommand())
	cmd.AddCommand(newSectionsDeleteCommand())
	cmd.AddCommand(newSectionsImportCommand())

	return cmd
}

func newSectionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List CMS sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			sections, err := e.repo.ListSections(ctx)
			if err != nil {
				return fmt.Errorf("failed to list sections: %w", err)
			}
			if len(sections) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sections.")
				return nil
			}

			rows := make([][]string, 0, len(sections))
			for _, s := range sections {
				rows = append(rows, []string{
					s.Name,
					s.ID.String(),
					strconv.Itoa(len(s.Content)),
					s.UpdatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Section", "ID", "Bytes", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newSectionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print a CMS section's JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			section, err := e.repo.GetSection(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), section.Content)
		},
	}
}

func newSectionsPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put <name> <file|->",
		Short: "Create or replace a CMS section from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			data, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			if err := sitecontent.ValidateSection(name, data); err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := openEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			section, err := e.repo.PutSection(ctx, name, data)
			if err != nil {
				return fmt.Errorf("failed to save section %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved section %s (%s)\n", section.Name, section.ID)
			return nil
		},
	}
}

func newSectionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a CMS section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.repo.DeleteSection(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted section %s\n", args[0])
			return nil
		},
	}
}

func newSectionsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Seed the CMS from a raw content record",
		Long: `Store every top-level section of a raw content record (for example an
existing content.json) as a CMS section. Existing sections with the same
name are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			record, err := sitecontent.ParseRecord(data)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := openEnv(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			for _, section := range record.Sections {
				content, err := json.Marshal(section.Value)
				if err != nil {
					return fmt.Errorf("failed to encode section %s: %w", section.Name, err)
				}
				if _, err := e.repo.PutSection(ctx, section.Name, content); err != nil {
					return fmt.Errorf("failed to save section %s: %w", section.Name, err)
				}
				e.logger.Debug("Imported section", "section", section.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sections\n", record.Len())
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
