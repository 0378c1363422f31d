package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/quinceleaf/conference-catering-browser/internal/app"
	"github.com/quinceleaf/conference-catering-browser/internal/core"
	"github.com/quinceleaf/conference-catering-browser/internal/export"
)

// ErrUsage is returned when a command is called with the wrong arguments.
var ErrUsage = errors.New("usage")

const usage = `Available commands:
  cost <order> [status]           category totals for an order (id or invoice number)
  packages <order> [status]       priced packages per logistics window
  report [flags]                  billing report summary
  export <xlsx|csv> <file> [flags] write the billing report to a file

Report flags: --tenant N --tenant-group N --user N --cost-type KEY --range "YYYY-MM-DD to YYYY-MM-DD"`

// Run executes a one-shot CLI command, writing output to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given\n%s", ErrUsage, usage)
	}

	switch args[0] {
	case "cost":
		ref, status, err := orderArgs(args[1:], "cost")
		if err != nil {
			return err
		}
		result, err := svc.GetOrderCost(ctx, ref, status)
		if err != nil {
			return fmt.Errorf("failed to cost order %s: %w", ref, err)
		}
		printOrderCost(out, result.Cost)

	case "packages", "pkg":
		ref, status, err := orderArgs(args[1:], "packages")
		if err != nil {
			return err
		}
		result, err := svc.GetOrderPackages(ctx, ref, status)
		if err != nil {
			return fmt.Errorf("failed to price packages for order %s: %w", ref, err)
		}
		printPackages(out, result)

	case "report":
		req, _, err := parseReportFlags("report", args[1:])
		if err != nil {
			return err
		}
		result, err := svc.GetBillingReport(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to build billing report: %w", err)
		}
		printBillingReport(out, result.Report)

	case "export":
		req, rest, err := parseReportFlags("export", args[1:])
		if err != nil {
			return err
		}
		if len(rest) != 2 {
			return fmt.Errorf("%w: export <xlsx|csv> <file> [flags]", ErrUsage)
		}
		result, err := svc.ExportBillingReport(ctx, req, rest[0])
		if err != nil {
			return fmt.Errorf("failed to export billing report: %w", err)
		}
		if err := os.WriteFile(rest[1], result.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rest[1], err)
		}
		fmt.Fprintf(out, "Wrote %d bytes to %s\n", len(result.Data), rest[1])

	default:
		return fmt.Errorf("%w: unknown command %q\n%s", ErrUsage, args[0], usage)
	}
	return nil
}

func orderArgs(args []string, cmd string) (ref, status string, err error) {
	if len(args) < 1 || len(args) > 2 {
		return "", "", fmt.Errorf("%w: %s <order> [review|is_active|is_draft|add_package]", ErrUsage, cmd)
	}
	if len(args) == 2 {
		status = args[1]
	}
	return args[0], status, nil
}

// parseReportFlags reads the billing filter flags. Positional arguments are
// returned in rest.
func parseReportFlags(cmd string, args []string) (app.BillingReportRequest, []string, error) {
	var req app.BillingReportRequest
	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	tenant := fs.Int("tenant", 0, "tenant id")
	group := fs.Int("tenant-group", 0, "tenant group id")
	user := fs.Int("user", 0, "customer id")
	fs.StringVar(&req.CostType, "cost-type", "", "cost category key")
	fs.StringVar(&req.RangeDate, "range", "", `"YYYY-MM-DD to YYYY-MM-DD"`)

	if err := fs.Parse(args); err != nil {
		return req, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.Changed("tenant") {
		req.TenantID = tenant
	}
	if fs.Changed("tenant-group") {
		req.TenantGroupID = group
	}
	if fs.Changed("user") {
		req.CustomerID = user
	}
	return req, fs.Args(), nil
}

// ── Output ────────────────────────────────────────────────────────────────────

func printOrderCost(out io.Writer, c *core.OrderCost) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "  ORDER %d  %s\n", c.OrderID, c.InvoiceNumber)
	fmt.Fprintf(out, "  Customer : %s\n", c.CustomerName)
	fmt.Fprintf(out, "  Event    : %s\n", c.EventDate.Format("2006-01-02"))
	fmt.Fprintf(out, "  Status   : %s\n", c.Status)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	for _, cat := range core.Categories {
		fmt.Fprintf(out, "  %-30s %15s\n", cat.Label(), c.Totals.Get(cat).StringFixed(2))
	}
	if !c.Totals.Unclassified.IsZero() {
		fmt.Fprintf(out, "  %-30s %15s\n", core.Unclassified.Label(), c.Totals.Unclassified.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("-", 50))
	fmt.Fprintf(out, "  %-30s %15s\n", "TOTAL", c.Totals.Total.StringFixed(2))
	fmt.Fprintln(out, strings.Repeat("=", 50))
}

func printPackages(out io.Writer, r *app.OrderPackagesResult) {
	fmt.Fprintf(out, "\nOrder %d (%s)\n", r.OrderID, r.Status)
	if len(r.Logistics) == 0 {
		fmt.Fprintln(out, "  No logistics windows.")
	}
	for _, l := range r.Logistics {
		fmt.Fprintln(out, strings.Repeat("-", 70))
		fmt.Fprintf(out, "%s\n", l.Description)
		for _, p := range l.Packages {
			fmt.Fprintf(out, "  %-40s %12s  %s\n", p.Name, p.Cost.StringFixed(2), p.PriceDescriptive)
			for _, a := range p.AddOns {
				fmt.Fprintf(out, "    + %-36s %12s  %s\n", a.Name, a.Cost.StringFixed(2), a.PriceDescriptive)
			}
		}
		for _, a := range l.AddOns {
			fmt.Fprintf(out, "  + %-38s %12s  %s\n", a.Name, a.Cost.StringFixed(2), a.PriceDescriptive)
		}
	}
	if len(r.AddOns) > 0 {
		fmt.Fprintln(out, strings.Repeat("-", 70))
		fmt.Fprintln(out, "Order add-ons")
		for _, a := range r.AddOns {
			fmt.Fprintf(out, "  + %-38s %12s  %s\n", a.Name, a.Cost.StringFixed(2), a.PriceDescriptive)
		}
	}
}

func printBillingReport(out io.Writer, r *core.BillingReport) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, export.StripTags("Orders - "+r.Conditions))
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  %-12s %-10s %-22s %12s\n", "INVOICE", "DATE", "CUSTOMER", "TOTAL")
	fmt.Fprintln(out, strings.Repeat("-", 62))
	for _, b := range r.Records {
		fmt.Fprintf(out, "  %-12s %-10s %-22s %12s\n",
			b.InvoiceNumber, b.EventDate.Format("2006-01-02"), b.CustomerName, b.TotalCost.StringFixed(2))
	}
	fmt.Fprintln(out, strings.Repeat("=", 62))
	s := r.Summary
	fmt.Fprintf(out, "  %-30s %15s\n", core.FoodInternal.Label(), s.FoodInternal.StringFixed(2))
	fmt.Fprintf(out, "  %-30s %15s\n", core.FoodExternal.Label(), s.FoodExternal.StringFixed(2))
	fmt.Fprintf(out, "  %-30s %15s\n", core.Beverage.Label(), s.AlcoholBeverages.StringFixed(2))
	fmt.Fprintf(out, "  %-30s %15s\n", core.Labor.Label(), s.Labor.StringFixed(2))
	fmt.Fprintf(out, "  %-30s %15s\n", core.Rentals.Label(), s.Rentals.StringFixed(2))
	fmt.Fprintln(out, strings.Repeat("-", 62))
	fmt.Fprintf(out, "  %-30s %15s\n", "TOTAL", s.TotalCost.StringFixed(2))
	fmt.Fprintf(out, "  %d orders, %d billing records\n", len(r.Orders), len(r.Records))
}
