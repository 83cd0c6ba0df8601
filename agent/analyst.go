package agent

import (
	"context"
	"fmt"
	"strings"

	"fintidy"
	"fintidy/date"
	"fintidy/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the expert driving the conversation. It can consult
// the other experts through function calls.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of solving the user's request.

			Learn about the experts' skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, and they keep the context of your previous questions.

			The user is here to understand their personal finances: where their money goes,
			which merchants and categories dominate their spending, and which transactions
			still lack a category. Devise a plan of questions for the experts and come up
			with the best response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst creates the expert in charge of the user's transaction ledger.
// loadLedger is called on every tool invocation so the analyst always sees
// the latest state on disk.
func NewAnalyst(loadLedger func() (*fintidy.Ledger, error), currency string) *Expert {
	lib := []Function{
		summaryFunc(loadLedger, currency),
		transactionsFunc(loadLedger),
		unassignedFunc(loadLedger),
		categoriesFunc(),
	}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He is in charge of reading the user's transaction
		ledger. He can summarize spending per category over any date range, list
		transactions, list the ones that still lack a category, and explain the
		category tree.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's transaction ledger.
				You know how to use the Tools to extract relevant information about the
				user's income and spending. You are part of a team of experts; pardon
				their approximative language and figure out what they meant.

				Use the available tools to get information about the ledger:
				  - spending summaries per category and per period
				  - transaction listings, optionally filtered by category subtree
				  - transactions not categorized yet
				  - the category tree the user files transactions under
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

const dateDoc = `Dates use the YYYY-MM-DD format, leading zeros optional.
The word "today" is accepted too.`

func summaryFunc(loadLedger func() (*fintidy.Ledger, error), currency string) Function {
	const name = "SpendingSummary"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `SpendingSummary aggregates the ledger over a date range: total income,
			spending and transfers, a per-category breakdown, and per-month subtotals when the
			range spans several months.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from": {
						Type:        genai.TypeString,
						Description: "First day of the range, inclusive. " + dateDoc,
					},
					"to": {
						Type:        genai.TypeString,
						Description: "Last day of the range, inclusive. Defaults to today. " + dateDoc,
					},
				},
				Required: []string{"from"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report with totals, a category table and monthly subtotals.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			r, err := parseRange(args)
			if err != nil {
				return errorResponse(id, name, err)
			}
			ledger, err := loadLedger()
			if err != nil {
				return errorResponse(id, name, err)
			}
			s := fintidy.NewSummary(ledger, r, date.Monthly, 2, currency)
			return outputResponse(id, name, renderer.SummaryMarkdown(s))
		},
	}
}

func transactionsFunc(loadLedger func() (*fintidy.Ledger, error)) Function {
	const name = "Transactions"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Transactions lists the ledger's transactions within a date range,
			optionally restricted to a category subtree like "spending/wants" or to
			descriptions containing a substring.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from": {
						Type:        genai.TypeString,
						Description: "First day of the range, inclusive. " + dateDoc,
					},
					"to": {
						Type:        genai.TypeString,
						Description: "Last day of the range, inclusive. Defaults to today. " + dateDoc,
					},
					"category": {
						Type:        genai.TypeString,
						Description: "Category path restricting the listing to one subtree. All categories by default.",
					},
					"contains": {
						Type:        genai.TypeString,
						Description: "Case-insensitive substring the statement description must contain.",
					},
				},
				Required: []string{"from"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the matching transactions.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			r, err := parseRange(args)
			if err != nil {
				return errorResponse(id, name, err)
			}
			subtree, _ := args["category"].(string)
			if subtree != "" && !fintidy.ValidCategory(subtree) {
				return errorResponse(id, name, fmt.Errorf("unknown category %q", subtree))
			}
			ledger, err := loadLedger()
			if err != nil {
				return errorResponse(id, name, err)
			}
			txs := ledger.Select(r, subtree)
			if contains, _ := args["contains"].(string); contains != "" {
				var kept []fintidy.Transaction
				for _, tx := range txs {
					if strings.Contains(strings.ToUpper(tx.Description), strings.ToUpper(contains)) {
						kept = append(kept, tx)
					}
				}
				txs = kept
			}
			return outputResponse(id, name, renderer.Transactions(txs, ledger.CategoryOf))
		},
	}
}

func unassignedFunc(loadLedger func() (*fintidy.Ledger, error)) Function {
	const name = "Unassigned"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Unassigned lists the transactions that no rule, model verdict or
			manual edit has categorized yet.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the uncategorized transactions.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			ledger, err := loadLedger()
			if err != nil {
				return errorResponse(id, name, err)
			}
			txs := ledger.Unassigned()
			return outputResponse(id, name, renderer.Transactions(txs, ledger.CategoryOf))
		},
	}
}

func categoriesFunc() Function {
	const name = "Categories"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Categories returns the category tree transactions are filed under. Only leaves can be assigned.`,
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The category tree as a nested markdown list.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return outputResponse(id, name, renderer.CategoryTreeMarkdown(fintidy.CategoryTree()))
		},
	}
}

func parseRange(args map[string]any) (date.Range, error) {
	from, err := parseDateArg(args, "from", date.Date{})
	if err != nil {
		return date.Range{}, err
	}
	to, err := parseDateArg(args, "to", date.Today())
	if err != nil {
		return date.Range{}, err
	}
	return date.NewRange(from, to), nil
}

func parseDateArg(args map[string]any, key string, fallback date.Date) (date.Date, error) {
	v, ok := args[key]
	if !ok {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return fallback, fmt.Errorf("argument %q is not a string but %T", key, v)
	}
	d, err := date.Parse(s)
	if err != nil {
		return fallback, fmt.Errorf("argument %q must be a valid date, got %q. %s", key, s, dateDoc)
	}
	return d, nil
}
