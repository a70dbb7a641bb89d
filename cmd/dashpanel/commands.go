package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/docstore"
	"github.com/muurk/dashpanel/internal/preview"
	"github.com/muurk/dashpanel/internal/ui"
)

// Subcommand flags
var (
	outputFormat string

	cardRef     string
	newTitle    string
	newDesc     string
	newTheme    string
	newLayout   string
	dryRun      bool
	assumeYes   bool
	broadcastTo string
	broadcastV  string

	cardCount int
	docName   string

	browseTimeout int
)

func init() {
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(broadcastCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(discoverCmd)
}

// newPrinter returns a printer for cmd's output; boxes and colors are
// dropped when stdout is not a terminal.
func newPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout()).SetPlain(!ui.IsTerminal())
}

// showCmd prints a document
var showCmd = &cobra.Command{
	Use:   "show <document>",
	Short: "Show a document's cards",
	Example: `  dashpanel show board.yaml
  dashpanel show board.yaml --format compact
  dashpanel show board.yaml --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json, yaml)")
}

func runShow(cmd *cobra.Command, args []string) error {
	result, err := docstore.Load(args[0])
	if err != nil {
		return err
	}
	doc := result.Document
	out := cmd.OutOrStdout()

	switch outputFormat {
	case "compact":
		fmt.Fprintln(out, dashboard.FormatCompact(doc))
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := docstore.Marshal(doc)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
	case "detailed":
		fmt.Fprintln(out, dashboard.FormatDetailed(doc))
	default:
		return fmt.Errorf("unknown format %q (expected detailed, compact, json or yaml)", outputFormat)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
	}
	return nil
}

// setCmd edits one card
var setCmd = &cobra.Command{
	Use:   "set <document>",
	Short: "Edit one card",
	Long: `Edit the title, description, theme or layout of a single card.

The card is named by its position (1 is the first card), its ID, a unique
ID prefix, or its exact title. All changes are applied together.
An empty --title or --description clears the field.`,
	Example: `  dashpanel set board.yaml --card 2 --theme outline
  dashpanel set board.yaml --card Revenue --layout column --title "Revenue (EUR)"
  dashpanel set board.yaml --card 1 --description "" --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&cardRef, "card", "", "Card to edit (position, ID, ID prefix or title)")
	setCmd.Flags().StringVar(&newTitle, "title", "", "New title")
	setCmd.Flags().StringVar(&newDesc, "description", "", "New description")
	setCmd.Flags().StringVar(&newTheme, "theme", "", "New theme (transparent, outline, dropping, neumorphism)")
	setCmd.Flags().StringVar(&newLayout, "layout", "", "New layout (auto, column, row)")
	setCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without saving")
	_ = setCmd.MarkFlagRequired("card")
}

func runSet(cmd *cobra.Command, args []string) error {
	path := args[0]
	printer := newPrinter(cmd)
	printer.PrintHeader("Edit card", "dashpanel set",
		ui.Param{Key: "Document", Value: path},
		ui.Param{Key: "Card", Value: cardRef},
	)

	result, err := docstore.Load(path)
	if err != nil {
		return err
	}
	doc := result.Document

	before, err := editCard(doc, cardRef, func(b *dashboard.EditBuilder) error {
		return buildEdit(cmd, b)
	})
	if err != nil {
		printer.PrintResult(ui.NewEditFailureResult("Card not changed", err))
		return err
	}

	printer.PrintDiff(dashboard.FormatDiff(before, doc))
	if dryRun {
		printer.PrintWarning("Dry run, nothing saved", ui.Param{Key: "File", Value: path})
		return nil
	}

	if err := docstore.Save(path, doc); err != nil {
		return err
	}
	success := ui.NewSuccessResult("Card updated", ui.Param{Key: "File", Value: path})
	for _, name := range []string{"title", "description", "theme", "layout"} {
		if cmd.Flags().Changed(name) {
			value, _ := cmd.Flags().GetString(name)
			success.AddDetail(name, value)
		}
	}
	printer.PrintResult(success)
	return nil
}

// buildEdit copies the changed flags into b.
func buildEdit(cmd *cobra.Command, b *dashboard.EditBuilder) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		b.SetTitle(newTitle)
	}
	if flags.Changed("description") {
		b.SetDescription(newDesc)
	}
	if flags.Changed("theme") {
		a, err := dashboard.ParseAppearance(newTheme)
		if err != nil {
			return err
		}
		b.SetAppearance(a)
	}
	if flags.Changed("layout") {
		a, err := dashboard.ParseAlign(newLayout)
		if err != nil {
			return err
		}
		b.SetAlign(a)
	}
	return nil
}

// editCard applies the edit described by fill to the card named ref, in
// place, and returns a copy of doc from before the edit.
func editCard(doc *dashboard.Document, ref string, fill func(*dashboard.EditBuilder) error) (*dashboard.Document, error) {
	card, err := findCard(doc, ref)
	if err != nil {
		return nil, err
	}

	builder := dashboard.NewEditBuilder(card)
	if err := fill(builder); err != nil {
		return nil, err
	}
	if !builder.HasChanges() {
		return nil, fmt.Errorf("nothing to change; pass --title, --description, --theme or --layout")
	}
	edit, err := builder.Build()
	if err != nil {
		return nil, err
	}

	before := dashboard.CloneDocument(doc)
	if err := edit.Apply(dashboard.NewStore(doc)); err != nil {
		return nil, err
	}
	return before, nil
}

// findCard resolves a card reference: a 1-based position, an ID, a unique
// ID prefix, or an exact title.
func findCard(doc *dashboard.Document, ref string) (*dashboard.Card, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("no card given")
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(doc.Cards) {
			return nil, fmt.Errorf("card %d out of range (document has %d cards)", n, len(doc.Cards))
		}
		return doc.Cards[n-1], nil
	}

	if c := doc.CardByID(ref); c != nil {
		return c, nil
	}

	var matches []*dashboard.Card
	for _, c := range doc.Cards {
		if strings.HasPrefix(c.ID, ref) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		for _, c := range doc.Cards {
			if c.TitleOrEmpty() == ref {
				matches = append(matches, c)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no card matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d cards; use the card ID", ref, len(matches))
	}
}

// broadcastCmd applies one theme or layout to every card
var broadcastCmd = &cobra.Command{
	Use:   "broadcast <document>",
	Short: "Apply a theme or layout to every card",
	Long: `Set the theme or layout of every card in the document at once.

The document's defaults for new cards are not changed. You are asked to
confirm unless --yes or --dry-run is given.`,
	Example: `  dashpanel broadcast board.yaml --field theme --value neumorphism
  dashpanel broadcast board.yaml --field layout --value row --yes
  dashpanel broadcast board.yaml --field theme --value outline --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runBroadcast,
}

func init() {
	broadcastCmd.Flags().StringVar(&broadcastTo, "field", "", "Field to set (theme or layout)")
	broadcastCmd.Flags().StringVar(&broadcastV, "value", "", "Value to set on every card")
	broadcastCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without saving")
	broadcastCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	_ = broadcastCmd.MarkFlagRequired("field")
	_ = broadcastCmd.MarkFlagRequired("value")
}

func runBroadcast(cmd *cobra.Command, args []string) error {
	path := args[0]
	printer := newPrinter(cmd)
	printer.PrintHeader("Broadcast "+broadcastTo, "dashpanel broadcast",
		ui.Param{Key: "Document", Value: path},
		ui.Param{Key: "Value", Value: broadcastV},
	)

	result, err := docstore.Load(path)
	if err != nil {
		return err
	}
	doc := result.Document

	if !dryRun && !assumeYes {
		warnings := []string{
			fmt.Sprintf("All %d cards get %s %s", len(doc.Cards), broadcastTo, broadcastV),
			"Per-card settings for this field are overwritten",
		}
		if !printer.Confirm(cmd.InOrStdin(), "Broadcast to every card", warnings) {
			return nil
		}
	}

	before, err := broadcast(doc, broadcastTo, broadcastV)
	if err != nil {
		printer.PrintResult(ui.NewEditFailureResult("Broadcast failed", err))
		return err
	}

	printer.PrintDiff(dashboard.FormatDiff(before, doc))
	if dryRun {
		printer.PrintWarning("Dry run, nothing saved", ui.Param{Key: "File", Value: path})
		return nil
	}

	if err := docstore.Save(path, doc); err != nil {
		return err
	}
	printer.PrintSuccess("Broadcast applied",
		ui.Param{Key: "File", Value: path},
		ui.Param{Key: "Cards", Value: strconv.Itoa(len(doc.Cards))},
	)
	return nil
}

// broadcast writes value to field on every card of doc in place and
// returns a copy of doc from before the change. field accepts the CLI
// names (theme, layout) and the model names (appearance, align); value is
// matched case-insensitively.
func broadcast(doc *dashboard.Document, field, value string) (*dashboard.Document, error) {
	store := dashboard.NewStore(doc)
	before := dashboard.CloneDocument(doc)

	switch strings.ToLower(strings.TrimSpace(field)) {
	case "theme", string(dashboard.FieldAppearance):
		a, err := dashboard.ParseAppearance(value)
		if err != nil {
			return nil, err
		}
		err = dashboard.BroadcastAppearance(store, a)
		return before, err
	case "layout", string(dashboard.FieldAlign):
		a, err := dashboard.ParseAlign(value)
		if err != nil {
			return nil, err
		}
		err = dashboard.BroadcastAlign(store, a)
		return before, err
	default:
		return nil, dashboard.NewUnknownFieldError(dashboard.Field(field))
	}
}

// newCmd creates a document
var newCmd = &cobra.Command{
	Use:   "new <document>",
	Short: "Create a new document",
	Example: `  dashpanel new board.yaml
  dashpanel new board.yaml --cards 6 --name "Sales"`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().IntVar(&cardCount, "cards", 3, "Number of cards to create")
	newCmd.Flags().StringVar(&docName, "name", "", "Document name (default: the file name)")
}

func runNew(cmd *cobra.Command, args []string) error {
	path := args[0]
	if cardCount < 0 {
		return fmt.Errorf("--cards must not be negative")
	}

	name := docName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	doc, err := docstore.Create(path, name, cardCount)
	if err != nil {
		return err
	}

	newPrinter(cmd).PrintSuccess("Document created",
		ui.Param{Key: "File", Value: path},
		ui.Param{Key: "Name", Value: doc.Name},
		ui.Param{Key: "Cards", Value: strconv.Itoa(len(doc.Cards))},
	)
	return nil
}

// discoverCmd lists preview servers on the local network
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find live previews announced on the network",
	Long: `Listen for dashpanel preview servers started with --advertise and
print their websocket URLs.`,
	Example: `  dashpanel discover
  dashpanel discover --timeout 10`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&browseTimeout, "timeout", 5, "Browse timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Looking for previews (timeout: %ds)...\n\n", browseTimeout)

	endpoints, err := preview.Browse(cmd.Context(), time.Duration(browseTimeout)*time.Second)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if len(endpoints) == 0 {
		fmt.Fprintln(out, "No previews found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Start the editor with --preview <addr> --advertise")
		fmt.Fprintln(out, "  - Listen on a reachable address, not 127.0.0.1")
		fmt.Fprintln(out, "  - Try increasing --timeout")
		return nil
	}

	fmt.Fprintf(out, "Found %d preview(s):\n\n", len(endpoints))
	for i, e := range endpoints {
		fmt.Fprintf(out, "%d. %s\n", i+1, e.Instance)
		fmt.Fprintf(out, "   URL: %s\n\n", e.URL())
	}
	return nil
}
