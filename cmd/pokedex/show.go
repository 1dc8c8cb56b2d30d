package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokedex-client/pkg/client"
	"github.com/Sternrassler/pokedex-client/pkg/query"
	"github.com/Sternrassler/pokedex-client/pkg/view"
)

// statOutput is one base stat in machine-readable output.
type statOutput struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value int    `json:"value" yaml:"value" toml:"value"`
}

// detailOutput is the machine-readable form of a detail record.
type detailOutput struct {
	ID             int          `json:"id" yaml:"id" toml:"id"`
	Name           string       `json:"name" yaml:"name" toml:"name"`
	Types          []string     `json:"types" yaml:"types" toml:"types"`
	Height         string       `json:"height" yaml:"height" toml:"height"`
	Weight         string       `json:"weight" yaml:"weight" toml:"weight"`
	BaseExperience int          `json:"base_experience" yaml:"base_experience" toml:"base_experience"`
	Abilities      []string     `json:"abilities" yaml:"abilities" toml:"abilities"`
	Stats          []statOutput `json:"stats" yaml:"stats" toml:"stats"`
	Image          string       `json:"image" yaml:"image" toml:"image"`
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show the details of one entry",
		Example: `  pokedex show 25
  pokedex show pikachu -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.fetchDetail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeDetail(cmd.OutOrStdout(), a.settings.Output, toDetailOutput(d, a.client.ImageURL(d.ID)))
		},
	}
}

// fetchDetail resolves arg as an id when it is numeric, else as a name.
func (a *app) fetchDetail(ctx context.Context, arg string) (*client.ItemDetail, error) {
	var state query.State[*client.ItemDetail]

	if id, err := strconv.Atoi(arg); err == nil {
		if id <= 0 {
			return nil, fmt.Errorf("show %s: %w", arg, client.ErrInvalidID)
		}
		q := query.NewDetailByIDQuery(a.store, a.client)
		q.Set(ctx, id, true)
		q.Wait()
		state = q.State()
	} else {
		name := strings.ToLower(strings.TrimSpace(arg))
		if name == "" {
			return nil, fmt.Errorf("show: %w", client.ErrInvalidName)
		}
		q := query.NewDetailByNameQuery(a.store, a.client)
		q.Set(ctx, name, true)
		q.Wait()
		state = q.State()
	}

	switch {
	case state.IsError() && client.IsNotFound(state.Err):
		return nil, fmt.Errorf("show %s: %s", arg, view.MsgNotFound)
	case state.IsError():
		return nil, fmt.Errorf("show %s: %w", arg, state.Err)
	case !state.HasData:
		return nil, fmt.Errorf("show %s: no data", arg)
	}
	return state.Data, nil
}

func toDetailOutput(d *client.ItemDetail, image string) detailOutput {
	out := detailOutput{
		ID:             d.ID,
		Name:           d.Name,
		Types:          d.TypeNames(),
		Height:         view.FormatHeight(d.Height),
		Weight:         view.FormatWeight(d.Weight),
		BaseExperience: d.BaseExperience,
		Abilities:      make([]string, 0, len(d.Abilities)),
		Stats:          make([]statOutput, 0, len(view.StatLabels)),
		Image:          image,
	}
	for _, ab := range d.Abilities {
		out.Abilities = append(out.Abilities, ab.Ability.Name)
	}
	for _, row := range view.StatRows(d) {
		out.Stats = append(out.Stats, statOutput{Name: row.Label, Value: row.Value})
	}
	return out
}

func writeDetail(w io.Writer, format string, d detailOutput) error {
	switch format {
	case "json", "yaml", "toml":
		return encode(w, format, d)
	}

	info := tablewriter.NewWriter(w)
	info.Header("Field", "Value")
	_ = info.Append("ID", view.FormatID(d.ID, view.DefaultIDDigits))
	_ = info.Append("Name", view.DisplayName(d.Name))
	_ = info.Append("Types", strings.Join(d.Types, ", "))
	_ = info.Append("Height", d.Height)
	_ = info.Append("Weight", d.Weight)
	_ = info.Append("Base experience", strconv.Itoa(d.BaseExperience))
	_ = info.Append("Abilities", strings.Join(d.Abilities, ", "))
	_ = info.Append("Image", d.Image)
	if err := info.Render(); err != nil {
		return err
	}

	stats := tablewriter.NewWriter(w)
	stats.Header("Stat", "Value", "")
	for _, s := range d.Stats {
		bar := strings.Repeat("#", int(view.StatPercent(s.Value)/5))
		_ = stats.Append(s.Name, strconv.Itoa(s.Value), bar)
	}
	return stats.Render()
}
