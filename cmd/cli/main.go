package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/washledger/internal/adapter/http/dto"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/auth"
	"github.com/iho/washledger/internal/infrastructure/logger"
	"github.com/iho/washledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "washledger-cli",
		Short:         "WashLedger CLI tool",
		Long:          `A command line interface for the car wash cashier ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the WashLedger API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("WASHLEDGER_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(materialsCmd(), entriesCmd(), customersCmd(), chargesCmd(), summaryCmd(), tokenCmd(), migrateCmd())
	return rootCmd
}

func materialsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "materials", Short: "Material catalog"}

	var req dto.CreateMaterialRequest
	var originalPrice, price, discountPrice string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a material",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.OriginalPrice, err = decimal.NewFromString(originalPrice); err != nil {
				return fmt.Errorf("original-price: %w", err)
			}
			if req.Price, err = decimal.NewFromString(price); err != nil {
				return fmt.Errorf("price: %w", err)
			}
			if req.DiscountPrice, err = decimal.NewFromString(discountPrice); err != nil {
				return fmt.Errorf("discount-price: %w", err)
			}
			return call(cmd.Context(), http.MethodPost, "/api/v1/materials/", req, printRaw)
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "Material name")
	create.Flags().StringVar(&req.Specifications, "specifications", "", "Specifications")
	create.Flags().StringVar(&req.Brand, "brand", "", "Brand")
	create.Flags().StringVar(&req.Functions, "functions", "", "Functions")
	create.Flags().StringVar(&req.Remarks, "remarks", "", "Remarks")
	create.Flags().StringVar(&originalPrice, "original-price", "0", "Cost price")
	create.Flags().StringVar(&price, "price", "0", "Regular selling price")
	create.Flags().StringVar(&discountPrice, "discount-price", "0", "Discounted selling price")
	create.Flags().Int64Var(&req.StockQuantity, "stock", 0, "Opening stock")
	_ = create.MarkFlagRequired("name")

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List materials",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/materials/?" + pageQuery(limit, offset).Encode()
			return call(cmd.Context(), http.MethodGet, path, nil, func(raw json.RawMessage) {
				var page dto.ListResponse[dto.MaterialResponse]
				if err := json.Unmarshal(raw, &page); err != nil {
					printJSON(raw)
					return
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tREMARKS")
				for _, m := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", m.ID, truncate(m.Name, 24), m.Price, m.StockQuantity, m.RemarksPreview)
				}
				_ = w.Flush()
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Page size")
	list.Flags().IntVar(&offset, "offset", 0, "Page offset")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodGet, "/api/v1/materials/"+url.PathEscape(args[0]), nil, printRaw)
		},
	}

	choices := &cobra.Command{
		Use:   "choices",
		Short: "List material labels for pickers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodGet, "/api/v1/materials/choices", nil, printRaw)
		},
	}

	cmd.AddCommand(create, list, get, choices)
	return cmd
}

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "entries", Short: "Cashier transactions"}

	var createReq dto.CreateEntryRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Record a sale or restock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodPost, "/api/v1/entries/", createReq, printRaw)
		},
	}
	create.Flags().StringVar(&createReq.ID, "id", "", "Entry ID (generated when empty)")
	create.Flags().StringVar(&createReq.MaterialID, "material", "", "Material ID")
	create.Flags().StringVar(&createReq.Action, "action", string(domain.ActionIncoming), "incoming or outgoing")
	create.Flags().Int64Var(&createReq.Quantity, "quantity", 1, "Units")
	create.Flags().StringVar(&createReq.PriceType, "price-type", string(domain.PriceTypePrice), "original_price, price or discount_price")
	create.Flags().StringVar(&createReq.Remarks, "remarks", "", "Remarks")
	_ = create.MarkFlagRequired("material")

	var updateReq dto.UpdateEntryRequest
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change quantity, price type or remarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodPut, "/api/v1/entries/"+url.PathEscape(args[0]), updateReq, printRaw)
		},
	}
	update.Flags().Int64Var(&updateReq.Quantity, "quantity", 1, "Units")
	update.Flags().StringVar(&updateReq.PriceType, "price-type", string(domain.PriceTypePrice), "original_price, price or discount_price")
	update.Flags().StringVar(&updateReq.Remarks, "remarks", "", "Remarks")

	var (
		limit, offset  int
		material       string
		action         string
		createdBy      string
		includeDeleted bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := pageQuery(limit, offset)
			setIf(q, "material_id", material)
			setIf(q, "action", action)
			setIf(q, "created_by", createdBy)
			if includeDeleted {
				q.Set("include_deleted", "true")
			}
			return call(cmd.Context(), http.MethodGet, "/api/v1/entries/?"+q.Encode(), nil, func(raw json.RawMessage) {
				var page dto.ListResponse[dto.EntryResponse]
				if err := json.Unmarshal(raw, &page); err != nil {
					printJSON(raw)
					return
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tMATERIAL\tACTION\tQTY\tMONEY\tEARNINGS\tREMARKS")
				for _, e := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
						e.ID, truncate(e.MaterialLabel, 24), e.Action, e.Quantity, e.Money, e.EarningsLabel, e.RemarksPreview)
				}
				_ = w.Flush()
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Page size")
	list.Flags().IntVar(&offset, "offset", 0, "Page offset")
	list.Flags().StringVar(&material, "material", "", "Filter by material ID")
	list.Flags().StringVar(&action, "action", "", "Filter by action")
	list.Flags().StringVar(&createdBy, "created-by", "", "Filter by cashier (admin only)")
	list.Flags().BoolVar(&includeDeleted, "include-deleted", false, "Include deleted entries (admin only)")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodGet, "/api/v1/entries/"+url.PathEscape(args[0]), nil, printRaw)
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete an entry, leaving stock unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodDelete, "/api/v1/entries/"+url.PathEscape(args[0]), nil, printRaw)
		},
	}

	reverse := &cobra.Command{
		Use:   "reverse <id>",
		Short: "Undo the stock effect of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodPost, "/api/v1/entries/"+url.PathEscape(args[0])+"/reverse", nil, printRaw)
		},
	}

	cmd.AddCommand(create, update, list, get, del, reverse)
	return cmd
}

func customersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "customers", Short: "Customer register"}

	var req dto.CreateCustomerRequest
	var collected string
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Collected, err = decimal.NewFromString(collected); err != nil {
				return fmt.Errorf("collected: %w", err)
			}
			return call(cmd.Context(), http.MethodPost, "/api/v1/customers/", req, printRaw)
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "Customer name")
	create.Flags().StringVar(&req.Gender, "gender", "", "male or female")
	create.Flags().StringVar(&req.Level, "level", "", "member or not_member")
	create.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	create.Flags().StringVar(&collected, "collected", "0", "Membership fee collected")
	create.Flags().StringVar(&req.PaymentMethod, "payment", "", "alipay, wechat or cash")
	create.Flags().Int64Var(&req.MemberVisits, "member-visits", 0, "Prepaid washes")
	create.Flags().StringVar(&req.Remarks, "remarks", "", "Remarks")
	_ = create.MarkFlagRequired("name")

	var limit, offset int
	var level string
	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := pageQuery(limit, offset)
			setIf(q, "level", level)
			return call(cmd.Context(), http.MethodGet, "/api/v1/customers/?"+q.Encode(), nil, func(raw json.RawMessage) {
				var page dto.ListResponse[dto.CustomerResponse]
				if err := json.Unmarshal(raw, &page); err != nil {
					printJSON(raw)
					return
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tLEVEL\tVISITS\tSTATUS\tREMARKS")
				for _, c := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\t%s\n",
						c.ID, truncate(c.Name, 20), c.Level, c.Visits, c.MemberVisits, c.MembershipStatus, c.RemarksPreview)
				}
				_ = w.Flush()
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Page size")
	list.Flags().IntVar(&offset, "offset", 0, "Page offset")
	list.Flags().StringVar(&level, "level", "", "Filter by member level")

	visit := &cobra.Command{
		Use:   "visit <id>",
		Short: "Count one wash for a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodPost, "/api/v1/customers/"+url.PathEscape(args[0])+"/visits", nil, printRaw)
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodDelete, "/api/v1/customers/"+url.PathEscape(args[0]), nil, printRaw)
		},
	}

	cmd.AddCommand(create, list, visit, del)
	return cmd
}

func chargesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "charges", Short: "Extra charges and their event types"}

	var typeReq dto.CreateEventTypeRequest
	addType := &cobra.Command{
		Use:   "add-type",
		Short: "Add an event type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodPost, "/api/v1/event-types/", typeReq, printRaw)
		},
	}
	addType.Flags().StringVar(&typeReq.Name, "name", "", "Event type name")
	addType.Flags().StringVar(&typeReq.Remarks, "remarks", "", "Remarks")
	_ = addType.MarkFlagRequired("name")

	types := &cobra.Command{
		Use:   "types",
		Short: "List event type labels for pickers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.Context(), http.MethodGet, "/api/v1/event-types/choices", nil, printRaw)
		},
	}

	var req dto.CreateChargeRequest
	var money string
	create := &cobra.Command{
		Use:   "create",
		Short: "Record an extra charge",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.Money, err = decimal.NewFromString(money); err != nil {
				return fmt.Errorf("money: %w", err)
			}
			return call(cmd.Context(), http.MethodPost, "/api/v1/extra-charges/", req, printRaw)
		},
	}
	create.Flags().StringVar(&req.EventTypeID, "type", "", "Event type ID")
	create.Flags().Int64Var(&req.Count, "count", 1, "Times the service was performed")
	create.Flags().StringVar(&money, "money", "0", "Total money taken")
	create.Flags().StringVar(&req.Remarks, "remarks", "", "Remarks")
	_ = create.MarkFlagRequired("type")

	var limit, offset int
	var eventType string
	list := &cobra.Command{
		Use:   "list",
		Short: "List extra charges",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := pageQuery(limit, offset)
			setIf(q, "event_type_id", eventType)
			return call(cmd.Context(), http.MethodGet, "/api/v1/extra-charges/?"+q.Encode(), nil, printRaw)
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Page size")
	list.Flags().IntVar(&offset, "offset", 0, "Page offset")
	list.Flags().StringVar(&eventType, "type", "", "Filter by event type ID")

	cmd.AddCommand(addType, types, create, list)
	return cmd
}

func summaryCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Cash flow between two RFC3339 timestamps",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "from", from)
			setIf(q, "to", to)
			return call(cmd.Context(), http.MethodGet, "/api/v1/entries/summary?"+q.Encode(), nil, printRaw)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Window start (default: 24h before --to)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (default: now)")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret   string
		userID   string
		name     string
		role     string
		validFor time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token with the server's JWT secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret or JWT_SECRET is required")
			}
			signed, err := auth.NewJWTManager(secret, validFor).Generate(&domain.User{
				ID:   userID,
				Name: name,
				Role: domain.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Println(signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCashier), "admin or cashier")
	cmd.Flags().DurationVar(&validFor, "valid-for", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL")
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")

	log := logger.New(logger.Config{Level: "info", Format: "console", Output: os.Stderr})

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			return postgres.RunMigrations(databaseURL, migrationsPath, log)
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			return postgres.RunMigrationsDown(databaseURL, migrationsPath, log)
		},
	}

	cmd.AddCommand(up, down)
	return cmd
}

// call sends body as JSON and hands a 2xx response body to render.
func call(ctx context.Context, method, path string, body any, render func(json.RawMessage)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%d %s: %s", resp.StatusCode, apiErr.Error, apiErr.Message)
			}
			return fmt.Errorf("%d %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%d: %s", resp.StatusCode, string(raw))
	}

	render(raw)
	return nil
}

func pageQuery(limit, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func printRaw(raw json.RawMessage) {
	printJSON(raw)
}

func printJSON(v any) {
	if raw, ok := v.(json.RawMessage); ok {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err == nil {
			fmt.Println(buf.String())
			return
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
