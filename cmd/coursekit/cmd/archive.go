package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/conecourse/editor/internal/archive"
	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/courseio"
	"github.com/conecourse/editor/internal/measure"
	"github.com/spf13/cobra"
)

var (
	archiveDriver string
	loadOutput    string
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Keep versioned courses in a database",
	Long: `Save course files under a name in the course archive (SQLite or
Postgres, see archive.driver). Saving a name again adds a version; loading
returns the newest.

Examples:
  coursekit archive save practice course.json
  coursekit archive list
  coursekit archive load practice -o practice.json
  coursekit archive delete practice
  coursekit archive dump backup.db`,
}

var archiveSaveCmd = &cobra.Command{
	Use:   "save <name> <course-file>",
	Short: "Save a course file as a new version of name",
	Args:  cobra.ExactArgs(2),
	RunE:  runArchiveSave,
}

var archiveLoadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Write the newest version of name to a course file",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveLoad,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived courses",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete every version of name",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveDelete,
}

var archiveDumpCmd = &cobra.Command{
	Use:   "dump <path>",
	Short: "Copy the SQLite archive to a new database file",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveDump,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveSaveCmd, archiveLoadCmd, archiveListCmd, archiveDeleteCmd, archiveDumpCmd)

	archiveCmd.PersistentFlags().StringVar(&archiveDriver, "driver", "", "archive driver: sqlite or postgres (overrides archive.driver)")
	archiveLoadCmd.Flags().StringVarP(&loadOutput, "output", "o", "", "output file (default: <name>.json)")
}

func openArchive() (*archive.Archive, error) {
	cfg := config.GetArchiveConfig()
	if archiveDriver != "" {
		cfg.Driver = archiveDriver
	}
	return archive.Open(cfg, Logger)
}

func runArchiveSave(cmd *cobra.Command, args []string) error {
	name := args[0]
	f, err := courseio.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read course: %w", err)
	}

	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.Save(cmd.Context(), name, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%d cones, %s) as %s\n",
		name, rec.ConeCount, measure.FormatFeet(rec.PathLength), rec.UUID)
	return nil
}

func runArchiveLoad(cmd *cobra.Command, args []string) error {
	name := args[0]
	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	f, rec, err := a.Load(cmd.Context(), name)
	if err != nil {
		return err
	}

	out := loadOutput
	if out == "" {
		out = name + ".json"
	}
	if err := saveCourse(out, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %q saved %s, wrote %s\n",
		name, rec.CreatedAt.Format("2006-01-02 15:04:05"), out)
	return nil
}

func runArchiveList(cmd *cobra.Command, _ []string) error {
	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	summaries, err := a.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Archive is empty")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCONES\tLENGTH\tVERSIONS\tSAVED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n",
			s.Name, s.ConeCount, measure.FormatFeet(s.PathLength), s.Versions,
			s.SavedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runArchiveDelete(cmd *cobra.Command, args []string) error {
	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d version(s) of %q\n", n, args[0])
	return nil
}

func runArchiveDump(cmd *cobra.Command, args []string) error {
	a, err := openArchive()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Dump(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Dumped archive to %s\n", args[0])
	return nil
}
