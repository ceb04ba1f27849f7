package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/penguintracker/internal/client/client"
	"github.com/dmitrijs2005/penguintracker/internal/client/models"
)

// List loads and prints the current page.
func (a *App) List(ctx context.Context) error {
	page, err := a.browser.Load(ctx)
	if err != nil {
		return err
	}
	a.printPage(page)
	return nil
}

func (a *App) Search(ctx context.Context, text string) error {
	a.browser.SetSearch(text)
	return a.List(ctx)
}

func (a *App) Gender(ctx context.Context, gender string) error {
	g, err := models.ParseGender(gender)
	if err != nil {
		return err
	}
	a.browser.SetGender(g)
	return a.List(ctx)
}

// Sort changes the sort order. An empty direction keeps the current one.
func (a *App) Sort(ctx context.Context, field, direction string) error {
	dir := a.browser.Query().SortDirection
	if direction != "" {
		d, err := models.ParseSortDirection(direction)
		if err != nil {
			return err
		}
		dir = d
	}
	a.browser.SetSort(field, dir)
	return a.List(ctx)
}

func (a *App) NextPage(ctx context.Context) error {
	if !a.browser.NextPage() {
		fmt.Fprintln(a.out, "Already on the last page")
		return nil
	}
	return a.List(ctx)
}

func (a *App) PrevPage(ctx context.Context) error {
	if !a.browser.PrevPage() {
		fmt.Fprintln(a.out, "Already on the first page")
		return nil
	}
	return a.List(ctx)
}

func (a *App) GoToPage(ctx context.Context, page string) error {
	n, err := strconv.Atoi(page)
	if err != nil || !a.browser.GoTo(n) {
		fmt.Fprintf(a.out, "No page %s (1-%d)\n", page, a.browser.TotalPages())
		return nil
	}
	return a.List(ctx)
}

// Refresh reloads the list from the backend starting at page 1.
func (a *App) Refresh(ctx context.Context) error {
	page, err := a.browser.Refresh(ctx)
	if err != nil {
		return err
	}
	a.printPage(page)
	return nil
}

// Show prints all fields of a penguin on the current page.
func (a *App) Show(ctx context.Context, id string) error {
	p, err := a.findOnPage(ctx, id)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", formatName(p.Name))
	fmt.Fprintf(tw, "Species:\t%s\n", p.Species)
	fmt.Fprintf(tw, "Island:\t%s\n", p.Island)
	fmt.Fprintf(tw, "Beak length (mm):\t%s\n", formatFloat(p.BeakLengthMm))
	fmt.Fprintf(tw, "Beak depth (mm):\t%s\n", formatFloat(p.BeakDepthMm))
	fmt.Fprintf(tw, "Flipper length (mm):\t%s\n", formatFloat(p.FlipperLengthMm))
	fmt.Fprintf(tw, "Body mass (g):\t%s\n", formatFloat(p.BodyMassG))
	fmt.Fprintf(tw, "Sex:\t%s\n", formatSex(p.Sex))
	return tw.Flush()
}

// Add asks for a new penguin and creates it.
func (a *App) Add(ctx context.Context) error {
	in, err := a.inputPenguin(models.PenguinInput{})
	if err != nil {
		return err
	}

	p, err := a.mutations.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created penguin #%d %s\n", p.ID, p.Title())
	return nil
}

// Edit asks for new values of a penguin on the current page, keeping the
// old value for every empty answer.
func (a *App) Edit(ctx context.Context, id string) error {
	p, err := a.findOnPage(ctx, id)
	if err != nil {
		return err
	}

	in, err := a.inputPenguin(p.Input())
	if err != nil {
		return err
	}

	updated, err := a.mutations.Update(ctx, p.ID, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated penguin #%d %s\n", updated.ID, updated.Title())
	return nil
}

// Delete removes a penguin after confirmation and reloads the current page.
// A penguin that is already gone counts as deleted.
func (a *App) Delete(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete penguin #%d?", n), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	switch err := a.mutations.Delete(ctx, n); {
	case errors.Is(err, client.ErrNotFound):
		fmt.Fprintf(a.out, "Penguin #%d was already deleted\n", n)
		// someone else removed it; the cached page is stale
		a.queries.InvalidateAll()
	case err != nil:
		return err
	default:
		fmt.Fprintf(a.out, "Deleted penguin #%d\n", n)
	}
	return a.List(ctx)
}

func (a *App) findOnPage(ctx context.Context, id string) (*models.Penguin, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}

	page, err := a.browser.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range page.Penguins {
		if p.ID == n {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("penguin #%d is not on the current page", n)
}

// inputPenguin runs the penguin form starting from cur.
func (a *App) inputPenguin(cur models.PenguinInput) (models.PenguinInput, error) {
	var (
		in  = cur
		err error
	)

	if in.Name, err = GetOptionalText(a.reader, "Name", cur.Name, a.out); err != nil {
		return in, err
	}
	if in.Species, err = a.requiredText("Species", cur.Species); err != nil {
		return in, err
	}
	if in.Island, err = a.requiredText("Island", cur.Island); err != nil {
		return in, err
	}
	if in.BeakLengthMm, err = GetFloat(a.reader, "Beak length (mm)", cur.BeakLengthMm, a.out); err != nil {
		return in, err
	}
	if in.BeakDepthMm, err = GetFloat(a.reader, "Beak depth (mm)", cur.BeakDepthMm, a.out); err != nil {
		return in, err
	}
	if in.FlipperLengthMm, err = GetFloat(a.reader, "Flipper length (mm)", cur.FlipperLengthMm, a.out); err != nil {
		return in, err
	}
	if in.BodyMassG, err = GetFloat(a.reader, "Body mass (g)", cur.BodyMassG, a.out); err != nil {
		return in, err
	}

	prompt := "Sex (male/female)"
	if cur.Sex != nil {
		prompt = fmt.Sprintf("%s [%s]", prompt, *cur.Sex)
	}
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return in, err
	}
	if s != "" {
		sex, err := models.ParseSex(s)
		if err != nil {
			return in, err
		}
		in.Sex = &sex
	}

	return in, nil
}

func (a *App) requiredText(prompt, cur string) (string, error) {
	if cur != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, cur)
	}
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if s == "" {
		return cur, nil
	}
	return s, nil
}

func (a *App) printPage(page *models.Page) {
	if len(page.Penguins) == 0 {
		fmt.Fprintln(a.out, "No penguins found")
	} else {
		tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSPECIES\tISLAND\tNAME\tSEX\tBEAK L\tBEAK D\tFLIPPER\tMASS")
		for _, p := range page.Penguins {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				p.ID, p.Species, p.Island, formatName(p.Name), formatSex(p.Sex),
				formatFloat(p.BeakLengthMm), formatFloat(p.BeakDepthMm),
				formatFloat(p.FlipperLengthMm), formatFloat(p.BodyMassG))
		}
		_ = tw.Flush()
	}

	q := a.browser.Query()
	filter := ""
	if q.SearchQuery != "" {
		filter = fmt.Sprintf(", search %q", q.SearchQuery)
	}
	fmt.Fprintf(a.out, "Page %d/%d, %d penguins%s, gender %s, sort %s %s\n",
		q.Page, a.browser.TotalPages(), page.TotalCount, filter, q.Gender, q.SortField, q.SortDirection)
}
