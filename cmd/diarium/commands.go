package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietloop/diarium/internal/config"
	"github.com/quietloop/diarium/internal/ingest"
	"github.com/quietloop/diarium/internal/vault"
)

// --- new ---

var newCmd = &cobra.Command{
	Use:   "new [date]",
	Short: "Create a templated journal entry",
	Long: `Create a templated journal entry for a date (default: today).

The template includes reflection prompts generated from recent entries by
the configured Ollama model; when the model is unreachable the entry falls
back to standing prompts.

Examples:
  diarium new
  diarium new 2024-10-04 --focus work`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(args)
		if err != nil {
			return err
		}
		focus, _ := cmd.Flags().GetString("focus")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.svc.Create(cmd.Context(), date, focus)
		if errors.Is(err, vault.ErrExists) {
			return fmt.Errorf("entry for %s already exists at %s", date.Format(vault.DateLayout), a.vault.Path(date))
		}
		if err != nil {
			return err
		}

		printSuccess("Created entry %s", date.Format(vault.DateLayout))
		fmt.Println(path)
		return nil
	},
}

// --- complete ---

var completeCmd = &cobra.Command{
	Use:   "complete [date]",
	Short: "Derive themes and write memory links for an entry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(args)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		set, ts, err := a.svc.Complete(date)
		if errors.Is(err, vault.ErrNotFound) {
			return fmt.Errorf("no entry found for %s", date.Format(vault.DateLayout))
		}
		if err != nil {
			return err
		}

		printSuccess("Completed entry %s", date.Format(vault.DateLayout))
		printStatus("Themes", "%s", strings.Join(ts.Texts(), ", "))
		if len(set.Temporal) == 0 {
			printStatus("Links", "no connections found")
			return nil
		}
		dates := make([]string, len(set.Temporal))
		for i, d := range set.Temporal {
			dates[i] = d.Format(vault.DateLayout)
		}
		printStatus("Links", "%s", strings.Join(dates, ", "))
		return nil
	},
}

// --- refresh ---

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Regenerate memory links for recent entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		printStep("Refreshing memory links for the last %d days...", days)
		res, err := a.svc.RefreshRecent(cmd.Context(), days)
		if err != nil {
			return err
		}

		printSuccess("Updated %d entries", res.Updated)
		if len(res.Failed) > 0 {
			keys := make([]string, 0, len(res.Failed))
			for k := range res.Failed {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				printError("%s: %v", k, res.Failed[k])
			}
			return fmt.Errorf("%d entries failed to refresh", len(res.Failed))
		}
		return nil
	},
}

// --- read / list ---

var readCmd = &cobra.Command{
	Use:   "read [date]",
	Short: "Print the raw content of an entry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(args)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		content, err := a.svc.Read(date)
		if errors.Is(err, vault.ErrNotFound) {
			return fmt.Errorf("no entry found for %s", date.Format(vault.DateLayout))
		}
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.svc.List()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No entries yet")
			return nil
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		for _, e := range entries {
			fmt.Println(e.Date.Format(vault.DateLayout))
		}
		return nil
	},
}

// --- themes ---

var themesCmd = &cobra.Command{
	Use:   "themes [date]",
	Short: "Show the recurring themes of an entry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(args)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ts, err := a.svc.Themes(date)
		if errors.Is(err, vault.ErrNotFound) {
			return fmt.Errorf("no entry found for %s", date.Format(vault.DateLayout))
		}
		if err != nil {
			return err
		}
		if ts.Empty() {
			fmt.Printf("No recurring themes detected in %s\n", date.Format(vault.DateLayout))
			return nil
		}
		for _, term := range ts.Terms {
			fmt.Printf("  %s (%d)\n", term.Text, term.Count)
		}
		return nil
	},
}

// --- trace ---

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Render a memory trace report over recent entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		report, err := a.svc.Trace(cmd.Context(), days)
		if err != nil {
			return err
		}
		fmt.Print(report)
		return nil
	},
}

// --- todos ---

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "Extract and manage action items from entries",
}

var todosExtractCmd = &cobra.Command{
	Use:   "extract [date]",
	Short: "Extract action items from an entry into the planner",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateArg(args)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		todos, path, err := a.svc.ExtractTodos(cmd.Context(), date)
		if errors.Is(err, vault.ErrNotFound) {
			return fmt.Errorf("no entry found for %s", date.Format(vault.DateLayout))
		}
		if err != nil {
			return err
		}
		if len(todos) == 0 {
			fmt.Printf("No action items found in entry for %s\n", date.Format(vault.DateLayout))
			return nil
		}

		printSuccess("Extracted %d action items to %s", len(todos), path)
		for _, td := range todos {
			fmt.Printf("  [ ] %s\n", td.Text)
		}
		return nil
	},
}

var todosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List extracted action items",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		todos, err := a.svc.Todos(all)
		if err != nil {
			return err
		}
		if len(todos) == 0 {
			fmt.Println("No action items")
			return nil
		}
		for _, td := range todos {
			box := "[ ]"
			if td.Done {
				box = "[x]"
			}
			fmt.Printf("  %s %s  %s  (%s)\n", box, td.ID, td.Text, td.EntryDate)
		}
		return nil
	},
}

var todosDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark an action item as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.svc.MarkTodoDone(args[0]); err != nil {
			return err
		}
		printSuccess("Marked %s as done", args[0])
		return nil
	},
}

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import dated entries from a markdown, text, or PDF dump",
	Long: `Import journal entries from an exported dump.

The file is split on dated headings ("# 2024-10-01", "## 2024-10-01", or
"[[2024-10-01]]"); each section becomes its own entry. PDF files are
detected by extension and have their text extracted first.

Existing entries are skipped unless --overwrite is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		im := ingest.NewImporter(a.vault, overwrite)

		var res ingest.Result
		if strings.EqualFold(filepath.Ext(args[0]), ".pdf") {
			res, err = im.ImportPDF(args[0])
		} else {
			res, err = im.ImportFile(args[0])
		}
		if err != nil {
			return err
		}

		printSuccess("Imported %d entries", len(res.Imported))
		if len(res.Skipped) > 0 {
			printWarning("Skipped %d existing entries: %s", len(res.Skipped), strings.Join(res.Skipped, ", "))
		}
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", styled(ansiBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Run "diarium config show" to see the available keys.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.SetKey(path, key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	newCmd.Flags().String("focus", "", "focus area for the reflection prompts")
	refreshCmd.Flags().Int("days", 30, "number of recent days to refresh")
	listCmd.Flags().Int("limit", 0, "maximum number of entries to list (0 = all)")
	traceCmd.Flags().Int("days", 30, "number of recent days to trace")
	todosListCmd.Flags().Bool("all", false, "include completed items")
	importCmd.Flags().Bool("overwrite", false, "overwrite existing entries")

	todosCmd.AddCommand(todosExtractCmd)
	todosCmd.AddCommand(todosListCmd)
	todosCmd.AddCommand(todosDoneCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
