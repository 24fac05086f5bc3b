package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bibbank/loan-decision/internal/application/dto"
	"github.com/bibbank/loan-decision/internal/application/usecase"
	"github.com/bibbank/loan-decision/internal/domain/service"
	"github.com/bibbank/loan-decision/internal/infrastructure/config"
	"github.com/bibbank/loan-decision/internal/infrastructure/ml"
	"github.com/bibbank/loan-decision/internal/infrastructure/spreadsheet"
	"github.com/bibbank/loan-decision/internal/presentation/presenter"
	"github.com/bibbank/loan-decision/pkg/auth"
	"github.com/bibbank/loan-decision/pkg/observability"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// modelFlags select the policy and classifier, defaulting to the service
// configuration.
type modelFlags struct {
	policy      string
	modelPath   string
	backend     string
	probability float64
	logLevel    string
}

func (m *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&m.policy, "policy", "", "Decision policy: hybrid or simple (default from DECISION_POLICY)")
	cmd.Flags().StringVar(&m.modelPath, "model", "", "Path to the model artifact (default from MODEL_PATH)")
	cmd.Flags().StringVar(&m.backend, "backend", "", "Model backend: artifact or stub (default from MODEL_BACKEND)")
	cmd.Flags().Float64Var(&m.probability, "stub-probability", -1, "Probability returned by the stub backend")
	cmd.Flags().StringVar(&m.logLevel, "log-level", "warn", "Log level")
}

func (m *modelFlags) evaluator(stderr io.Writer) (*usecase.EvaluateApplication, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if m.modelPath != "" {
		cfg.SetModelPath(m.modelPath)
	}
	if m.policy != "" {
		cfg.SetPolicy(m.policy)
	}
	if m.backend != "" {
		cfg.ModelBackend = strings.ToLower(m.backend)
	}
	if m.probability >= 0 {
		cfg.StubProbability = m.probability
	}

	logger := observability.InitLogger(observability.LogConfig{
		Output: stderr,
		Level:  m.logLevel,
		Format: "text",
	})

	var handle *ml.Handle
	if cfg.ModelBackend == config.BackendStub {
		handle = ml.NewHandle(ml.NewStubClassifier(cfg.StubProbability, logger), nil, logger)
	} else {
		model, err := ml.LoadPolicyModel(cfg.ModelPath, cfg.Policy)
		if err != nil {
			handle = ml.NewHandle(nil, err, logger)
		} else {
			handle = ml.NewHandle(model, nil, logger)
		}
	}

	policy, err := service.NewPolicy(cfg.Policy, cfg.Thresholds, logger)
	if err != nil {
		return nil, err
	}
	return usecase.NewEvaluateApplication(policy, handle, nil, logger), nil
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "decisionctl",
		Short:         "Loan decision command line tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.AddCommand(
		newEvaluateCmd(stderr),
		newBatchCmd(stderr),
		newTokenCmd(),
	)
	return rootCmd
}

func newEvaluateCmd(stderr io.Writer) *cobra.Command {
	var (
		mf      modelFlags
		req     dto.EvaluateApplicationRequest
		amounts [3]string
		lang    string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Decide a single application",
		Long: `Decide a single application and print the banner.

Example: decisionctl evaluate --gender Male --married Yes --dependents 0 \
  --education Graduate --self-employed No --applicant-income 5000 \
  --loan-amount 150 --loan-term "Medium Term" --property-area Urban`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for i, dst := range []*decimal.Decimal{&req.ApplicantIncome, &req.CoapplicantIncome, &req.LoanAmount} {
				d, err := decimal.NewFromString(amounts[i])
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amounts[i], err)
				}
				*dst = d
			}

			evaluate, err := mf.evaluator(stderr)
			if err != nil {
				return err
			}
			resp, err := evaluate.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			b := presenter.Present(resp.Verdict, presenter.ParseLocale(lang))
			fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(string(b.Severity)), b.Title)
			if b.Message != "" {
				fmt.Fprintln(out, b.Message)
			}
			fmt.Fprintf(out, "outcome=%s debt_income_ratio=%s id=%s\n", resp.Outcome, resp.DebtIncomeRatio, resp.ID)
			return nil
		},
	}

	mf.register(cmd)
	f := cmd.Flags()
	f.StringVar(&req.Gender, "gender", "", "Male or Female")
	f.StringVar(&req.Married, "married", "No", "Yes or No")
	f.StringVar(&req.Dependents, "dependents", "0", "0, 1, 2 or 3+")
	f.StringVar(&req.Education, "education", "Graduate", "Graduate or Not Graduate")
	f.StringVar(&req.SelfEmployed, "self-employed", "No", "Yes or No")
	f.StringVar(&amounts[0], "applicant-income", "0", "Monthly applicant income")
	f.StringVar(&amounts[1], "coapplicant-income", "0", "Monthly co-applicant income")
	f.StringVar(&amounts[2], "loan-amount", "0", "Loan amount in thousands")
	f.StringVar(&req.LoanTerm, "loan-term", "", "Short Term, Medium Term or Long Term")
	f.StringVar(&req.PropertyArea, "property-area", "", "Urban, Rural or Semiurban")
	f.StringVar(&req.CreditHistory, "credit-history", "", "Good history or Poor history")
	f.StringVar(&lang, "lang", "en", "Banner language: en or es")
	f.BoolVar(&asJSON, "json", false, "Print the decision as JSON")

	return cmd
}

func newBatchCmd(stderr io.Writer) *cobra.Command {
	var (
		mf    modelFlags
		out   string
		sheet string
	)

	cmd := &cobra.Command{
		Use:   "batch [workbook.xlsx]",
		Short: "Decide every application in a workbook",
		Long: `Decide every row of a workbook that uses the training column names
(Gender, Married, Dependents, Education, Self_Employed, ApplicantIncome,
CoapplicantIncome, LoanAmount, Loan_Amount_Term, Credit_History,
Property_Area) and write a copy with decision columns appended.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			if out == "" {
				out = strings.TrimSuffix(in, ".xlsx") + "_decisions.xlsx"
			}

			wb, err := spreadsheet.Open(in, sheet)
			if err != nil {
				return err
			}
			defer wb.Close()

			evaluate, err := mf.evaluator(stderr)
			if err != nil {
				return err
			}

			reqs, rowErrs := wb.Requests()
			items, err := usecase.NewBatchEvaluate(evaluate).Execute(cmd.Context(), reqs)
			if err != nil {
				return err
			}
			counts := make(map[string]int)
			for i := range items {
				if rowErr, ok := rowErrs[items[i].Index]; ok {
					items[i].Err, items[i].Response = rowErr, nil
				}
				if items[i].Err != nil {
					counts["INVALID"]++
					continue
				}
				counts[items[i].Response.Outcome]++
			}

			if err := wb.WriteDecisions(items, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d applications written to %s (approved=%d rejected=%d review=%d error=%d invalid=%d)\n",
				len(items), out, counts["APPROVED"], counts["REJECTED"], counts["MANUAL_REVIEW"], counts["ERROR"], counts["INVALID"])
			return nil
		},
	}

	mf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output workbook (default <input>_decisions.xlsx)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (default first sheet)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		secret  string
		issuer  string
		subject string
		roles   []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development JWT for the decision API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				secret = os.Getenv("AUTH_JWT_SECRET")
			}
			svc, err := auth.NewJWTService(auth.JWTConfig{Secret: secret, Issuer: issuer, Expiration: ttl})
			if err != nil {
				return err
			}
			token, err := svc.GenerateToken(subject, roles)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "HMAC secret (default from AUTH_JWT_SECRET)")
	cmd.Flags().StringVar(&issuer, "issuer", "bib-loan-decision", "Token issuer")
	cmd.Flags().StringVar(&subject, "subject", "decisionctl", "Token subject")
	cmd.Flags().StringSliceVar(&roles, "roles", []string{auth.RoleLoanOfficer}, "Comma-separated roles")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	return cmd
}
