package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/smallbiznis/tokenmeter/internal/catalog"
	"github.com/smallbiznis/tokenmeter/internal/config"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the pricing catalog",
	Long: `Show subscription tiers, token packages, per-action costs and volume
discounts. CATALOG_PATH selects a catalog file; otherwise the built-in
catalog is shown.`,
	RunE: runCatalog,
}

var economicsCmd = &cobra.Command{
	Use:   "economics",
	Short: "Compute customer lifetime value and payback",
	Long: `Compute customer lifetime value and acquisition payback.

Amounts are in minor units of the catalog currency.

Examples:
  tokenmeter economics --revenue=19900 --churn=0.04
  tokenmeter economics --revenue=19900 --churn=0.04 --acquisition=45000`,
	RunE: runEconomics,
}

var (
	catalogJSON         bool
	economicsRevenue    int64
	economicsChurn      float64
	economicsAcquisition int64
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(economicsCmd)

	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "print the catalog as JSON")

	economicsCmd.Flags().Int64Var(&economicsRevenue, "revenue", 0, "monthly revenue per customer")
	economicsCmd.Flags().Float64Var(&economicsChurn, "churn", 0, "monthly churn rate, 0 < churn <= 1")
	economicsCmd.Flags().Int64Var(&economicsAcquisition, "acquisition", 0, "customer acquisition cost")
	_ = economicsCmd.MarkFlagRequired("revenue")
	_ = economicsCmd.MarkFlagRequired("churn")
}

func loadCatalog() (catalog.Catalog, error) {
	cfg := config.Load()
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.CatalogPath)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	if catalogJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}
	return writeCatalog(cmd.OutOrStdout(), cat)
}

func writeCatalog(w io.Writer, cat catalog.Catalog) error {
	money := func(cents int64) string { return catalog.FormatCents(cents, cat.Currency) }
	limit := func(v int64) string {
		if v == catalog.Unlimited {
			return "unlimited"
		}
		return fmt.Sprintf("%d", v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Currency: %s, list price %s per 1k tokens\n\n", cat.Currency, money(cat.TokenPriceCentsPer1K))

	fmt.Fprintln(tw, "TIER\tPRICE/MONTH\tTOKENS\tSEATS\tSTORAGE GB\tFEATURES")
	for _, t := range cat.Tiers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Code, money(t.MonthlyPriceCents), limit(t.IncludedTokens), limit(t.MaxSeats), limit(t.StorageGB), features(t))
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "PACKAGE\tPRICE\tTOKENS\tBONUS")
	for _, p := range cat.Packages {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", p.ID, money(p.PriceCents), p.Tokens, p.BonusTokens)
	}

	actions := make([]string, 0, len(cat.ActionCosts))
	for action := range cat.ActionCosts {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "ACTION\tTOKENS")
	for _, action := range actions {
		fmt.Fprintf(tw, "%s\t%d\n", action, cat.ActionCosts[action])
	}

	if len(cat.Discounts) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "FROM TOKENS\tDISCOUNT")
		for _, d := range cat.Discounts {
			fmt.Fprintf(tw, "%d\t%.0f%%\n", d.MinTokens, d.Discount*100)
		}
	}
	return tw.Flush()
}

func features(t catalog.SubscriptionTier) string {
	names := make([]string, 0, len(t.Features))
	for name, on := range t.Features {
		if on {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func runEconomics(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	ltv, err := catalog.LifetimeValue(economicsRevenue, economicsChurn)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Lifetime value: %s\n", catalog.FormatCents(ltv, cat.Currency))

	if economicsAcquisition > 0 {
		months, err := catalog.PaybackMonths(economicsAcquisition, economicsRevenue)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Payback:        %.1f months\n", months)
		fmt.Fprintf(out, "LTV:CAC:        %.1f\n", float64(ltv)/float64(economicsAcquisition))
	}
	return nil
}
