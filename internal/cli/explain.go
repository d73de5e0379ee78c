package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"SearchAPI/internal/config"
	"SearchAPI/internal/logger"
	"SearchAPI/internal/query"
	"SearchAPI/internal/search"
	"SearchAPI/internal/sqlbuild"
	"SearchAPI/internal/store"
)

func NewExplainCmd() *cobra.Command {
	var (
		body    string
		file    string
		dialect string
	)

	cmd := &cobra.Command{
		Use:   "explain <entity>",
		Short: "Print the predicate and SQL a search request compiles to",
		Example: `  # Show the SQL for a product search
  searchapi explain products --request '{"search":"wid","filters":{"price":9.99}}'

  # Read the request from a file and render SQLite SQL
  searchapi explain roles --file req.json --dialect sqlite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.SetOutput(cmd.ErrOrStderr())
			cfg := config.LoadConfig()

			req, err := readRequest(body, file)
			if err != nil {
				return err
			}
			d, err := dialectOf(cfg)
			if dialect != "" {
				d, err = sqlbuild.ParseDialect(dialect)
			}
			if err != nil {
				return err
			}

			reg, err := loadRegistry(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			svc := search.NewService[store.Row](reg, nil)
			entity, plan, err := svc.Explain(args[0], req)
			if err != nil {
				var ve *search.ValidationError
				if errors.As(err, &ve) {
					for _, v := range ve.Violations {
						fmt.Fprintln(cmd.ErrOrStderr(), "violation:", v)
					}
				}
				return err
			}

			b := sqlbuild.New(d, entity)
			page, err := b.SelectPage(plan)
			if err != nil {
				return err
			}
			pageSQL, pageArgs, err := page.ToSql()
			if err != nil {
				return err
			}
			count, err := b.SelectCount(plan.Predicate)
			if err != nil {
				return err
			}
			countSQL, countArgs, err := count.ToSql()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "predicate: %s\n", plan.Predicate)
			fmt.Fprintf(out, "fields:    %s\n", strings.Join(query.Fields(plan.Predicate), ", "))
			fmt.Fprintf(out, "sort:      %s\n", sortString(plan.Sort))
			fmt.Fprintf(out, "page:      %d (size %d, offset %d)\n", plan.Page, plan.Size, plan.Offset())
			fmt.Fprintf(out, "count:     %s %v\n", countSQL, countArgs)
			fmt.Fprintf(out, "select:    %s %v\n", pageSQL, pageArgs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&body, "request", "r", "", "search request as JSON")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the search request from a JSON file")
	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect to render (postgres|sqlite); defaults to BACKEND")
	return cmd
}

func readRequest(body, file string) (*query.Request, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read request file: %w", err)
		}
		body = string(data)
	}
	req := &query.Request{}
	if strings.TrimSpace(body) == "" {
		return req, nil
	}
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(req); err != nil {
		return nil, fmt.Errorf("invalid request JSON: %w", err)
	}
	return req, nil
}

func sortString(keys []query.SortKey) string {
	if len(keys) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k.String())
	}
	return strings.Join(parts, ", ")
}
