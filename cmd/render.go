package cmd

import (
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/ensgraph/ens"
	"github.com/tranvictor/ensgraph/graph"
	"github.com/tranvictor/ensgraph/ui"
	"github.com/tranvictor/ensgraph/util/addrbook"
)

const maxSuggestions = 3

// renderProfile shows exactly one of a profile, a not found notice or an
// error for p.
func renderProfile(u ui.UI, p ens.Profile, verbose bool) {
	u.Section(p.Name)
	switch p.Outcome() {
	case ens.OutcomeFatal:
		u.Error("Couldn't resolve %s: %s", p.Name, p.FatalError)
		return
	case ens.OutcomeNotFound:
		u.Warn("%s not found: it has no resolver", p.Name)
		return
	}

	address := func(a *common.Address) string {
		if a == nil {
			return "-"
		}
		hex := u.Style(ui.StyledText{Text: a.Hex(), Severity: ui.SeverityCritical})
		if name := addressBook.Resolve(*a); name != addrbook.Unknown {
			return hex + " (" + name + ")"
		}
		return hex
	}
	expiry := "-"
	if p.Expiry != nil {
		expiry = p.Expiry.Format("2006-01-02 15:04 MST")
		if p.Expiry.Before(time.Now()) {
			expiry += " " + u.Style(ui.StyledText{Text: "(expired)", Severity: ui.SeverityWarn})
		}
	}
	contentHash := "-"
	if p.ContentHash != "" {
		contentHash = p.ContentHash
	}
	u.KeyValue([][2]string{
		{"Address", address(p.ResolvedAddress)},
		{"Owner", address(p.Owner)},
		{"Resolver", address(p.Resolver)},
		{"Expires", expiry},
		{"Content hash", contentHash},
	})
	if !p.HasData() {
		u.Warn("No ENS data found for this name")
	}

	groups := [][][]string{}
	if texts := textRows(p.TextRecords); len(texts) > 0 {
		groups = append(groups, texts)
	}
	if coins := coinRows(p.CoinAddresses); len(coins) > 0 {
		groups = append(groups, coins)
	}
	if len(groups) > 0 {
		u.TableWithGroups([]string{"Record", "Value"}, groups)
	}

	if verbose && len(p.Lookups) > 0 {
		rows := make([][]string, 0, len(p.Lookups))
		for _, l := range p.Lookups {
			rows = append(rows, []string{l.Field, styleStatus(u, l.Status), l.Strategy, l.Error})
		}
		u.Table([]string{"Lookup", "Status", "Strategy", "Error"}, rows)
	}
}

func styleStatus(u ui.UI, s ens.Status) string {
	severity := ui.SeverityInfo
	switch s {
	case ens.StatusOK:
		severity = ui.SeveritySuccess
	case ens.StatusUnsupported, ens.StatusEmpty:
		severity = ui.SeverityWarn
	case ens.StatusFailed:
		severity = ui.SeverityError
	}
	return u.Style(ui.StyledText{Text: s.String(), Severity: severity})
}

// textRows lists catalogue keys in catalogue order, then any other keys
// sorted.
func textRows(records map[string]string) [][]string {
	rows := [][]string{}
	known := map[string]bool{}
	for _, key := range ens.TextKeys {
		known[key] = true
		if v, ok := records[key]; ok {
			rows = append(rows, []string{key, v})
		}
	}
	extra := []string{}
	for key := range records {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		rows = append(rows, []string{key, records[key]})
	}
	return rows
}

func coinRows(coins map[ens.CoinLabel]string) [][]string {
	rows := [][]string{}
	for _, c := range ens.Coins {
		if v, ok := coins[c.Label]; ok {
			rows = append(rows, []string{string(c.Label), v})
		}
	}
	return rows
}

// suggest lists graph names close to name.
func suggest(u ui.UI, name string, candidates []string) {
	matches := graph.Find(name, candidates)
	if len(matches) == 0 {
		return
	}
	names := []string{}
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		if !strings.EqualFold(matches[i].Name, name) {
			names = append(names, matches[i].Name)
		}
	}
	if len(names) > 0 {
		u.Info("Did you mean: %s?", strings.Join(names, ", "))
	}
}
