package salaryhandler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rgehrsitz/netpay/internal/advice"
	"github.com/rgehrsitz/netpay/internal/breakeven"
	"github.com/rgehrsitz/netpay/internal/calculation"
	"github.com/rgehrsitz/netpay/internal/compare"
	"github.com/rgehrsitz/netpay/internal/config"
	"github.com/rgehrsitz/netpay/internal/domain"
	"github.com/rgehrsitz/netpay/internal/output"
	"github.com/rgehrsitz/netpay/internal/transport/http/api"
	"github.com/rgehrsitz/netpay/internal/transport/http/middleware"
)

// CalculationObserver is told about every calculation the handlers run.
type CalculationObserver interface {
	ObserveCalculation(year domain.TaxYear)
	ObserveError(err error)
}

type Handler struct {
	Engine   *calculation.Engine
	Compare  *compare.CompareEngine
	Solver   *breakeven.Solver
	Advisor  advice.Advisor
	Observer CalculationObserver
	Log      *zap.Logger

	// DefaultYear is consulted per request so configuration reloads take effect.
	DefaultYear func() domain.TaxYear
}

func NewHandler(engine *calculation.Engine, advisor advice.Advisor, observer CalculationObserver, log *zap.Logger, defaultYear func() domain.TaxYear) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if defaultYear == nil {
		defaultYear = func() domain.TaxYear { return domain.DefaultTaxYear }
	}
	return &Handler{
		Engine:      engine,
		Compare:     compare.NewCompareEngine(engine),
		Solver:      breakeven.NewDefaultSolver(engine),
		Advisor:     advisor,
		Observer:    observer,
		Log:         log,
		DefaultYear: defaultYear,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/salary", func(r chi.Router) {
		r.Post("/calculate", h.handleCalculate)
		r.Get("/table", h.handleTable)
		r.Get("/compare", h.handleCompare)
		r.Post("/solve", h.handleSolve)
		r.Post("/advice", h.handleAdvice)
	})
	r.Get("/years", h.handleYears)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := api.StatusFor(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("request failed", zap.Error(err), zap.String("request_id", middleware.GetRequestID(r.Context())))
	}
	if h.Observer != nil {
		h.Observer.ObserveError(err)
	}
	api.FailError(w, err, middleware.GetRequestID(r.Context()))
}

// year resolves the ?year= parameter against the configured default.
func (h *Handler) year(r *http.Request) (domain.TaxYear, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" {
		return h.DefaultYear(), nil
	}
	return domain.ParseTaxYear(raw)
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", domain.ErrInvalidInput)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return fmt.Errorf("%w: invalid request payload: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) calculate(in domain.SalaryInput, year domain.TaxYear) (*domain.TaxBreakdown, error) {
	if err := config.ValidateAmountRange(in); err != nil {
		return nil, err
	}
	b, err := h.Engine.CalculateDeductions(in, year)
	if err != nil {
		return nil, err
	}
	if h.Observer != nil {
		h.Observer.ObserveCalculation(year)
	}
	return b, nil
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	year, err := h.year(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in domain.SalaryInput
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := h.calculate(in, year)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, b, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	year, err := h.year(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	opts := calculation.TableOptions{Year: year}
	for name, dst := range map[string]*int64{"start": &opts.Start, "end": &opts.End, "step": &opts.Step} {
		if *dst, err = queryInt64(q.Get(name), name); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	deps, err := queryInt64(q.Get("dependents"), "dependents")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	kids, err := queryInt64(q.Get("children8to20"), "children8to20")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	allowance, err := queryDecimal(q.Get("nonTaxable"), "nonTaxable")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	opts.DependentCount = int(deps)
	opts.QualifyingChildren = int(kids)
	opts.NonTaxableAllowance = allowance
	template := domain.SalaryInput{
		NonTaxableAllowance: allowance,
		DependentCount:      opts.DependentCount,
		ChildrenUnder20:     opts.QualifyingChildren,
		QualifyingChildren:  domain.IntPtr(opts.QualifyingChildren),
	}
	if err := config.ValidateSalaryInput(template); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := checkTableSize(opts); err != nil {
		h.fail(w, r, err)
		return
	}

	rows, err := h.Engine.SalaryTable(r.Context(), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if h.Observer != nil {
		h.Observer.ObserveCalculation(year)
	}

	switch strings.ToLower(q.Get("format")) {
	case "", "json":
		api.Success(w, rows, middleware.GetRequestID(r.Context()))
	case "csv":
		data, err := output.SalaryTableCSV(rows)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeAttachment(w, "text/csv; charset=utf-8", fmt.Sprintf("salary-table-%d.csv", year), data)
	case "xlsx":
		var buf bytes.Buffer
		if err := output.WriteSalaryTableXLSX(&buf, rows); err != nil {
			h.fail(w, r, err)
			return
		}
		writeAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			fmt.Sprintf("salary-table-%d.xlsx", year), buf.Bytes())
	default:
		h.fail(w, r, fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, q.Get("format")))
	}
}

// MaxTableRows bounds a single table request.
const MaxTableRows = 5000

func checkTableSize(opts calculation.TableOptions) error {
	start, end, step := opts.Start, opts.End, opts.Step
	if start == 0 {
		start = calculation.DefaultTableStart
	}
	if end == 0 {
		end = calculation.DefaultTableEnd
	}
	if step == 0 {
		step = calculation.DefaultTableStep
	}
	if step > 0 && end >= start && (end-start)/step >= MaxTableRows {
		return fmt.Errorf("%w: table would exceed %d rows", domain.ErrInvalidInput, MaxTableRows)
	}
	return nil
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	in, err := queryInput(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := config.ValidateAmountRange(in); err != nil {
		h.fail(w, r, err)
		return
	}

	var set *compare.ComparisonSet
	if raw := strings.TrimSpace(r.URL.Query().Get("years")); raw != "" {
		years, perr := parseYears(raw)
		if perr != nil {
			h.fail(w, r, perr)
			return
		}
		set, err = h.Compare.Compare(r.Context(), in, years)
	} else {
		set, err = h.Compare.CompareAll(r.Context(), in)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, set, middleware.GetRequestID(r.Context()))
}

type solveRequest struct {
	TargetNet           decimal.Decimal `json:"targetNet"`
	NonTaxableAllowance decimal.Decimal `json:"nonTaxable"`
	DependentCount      int             `json:"dependents"`
	ChildrenUnder20     int             `json:"childrenUnder20"`
	QualifyingChildren  *int            `json:"children8to20,omitempty"`
	Year                int             `json:"year"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	year := h.DefaultYear()
	if req.Year != 0 {
		parsed, err := domain.ParseTaxYear(strconv.Itoa(req.Year))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		year = parsed
	}
	template := domain.SalaryInput{
		NonTaxableAllowance: req.NonTaxableAllowance,
		DependentCount:      req.DependentCount,
		ChildrenUnder20:     req.ChildrenUnder20,
		QualifyingChildren:  req.QualifyingChildren,
	}
	if err := config.ValidateSalaryInput(template); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.Solver.SolveGross(r.Context(), breakeven.Request{
		TargetNet: req.TargetNet,
		Template:  template,
		Year:      year,
	})
	if err != nil {
		var solverErr *breakeven.SolverError
		if errors.As(err, &solverErr) && solverErr.Cause == nil {
			err = fmt.Errorf("%w: %s", domain.ErrInvalidInput, solverErr.Error())
		}
		h.fail(w, r, err)
		return
	}
	if h.Observer != nil {
		h.Observer.ObserveCalculation(year)
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type adviceResponse struct {
	Advice    string               `json:"advice"`
	Available bool                 `json:"available"`
	Breakdown *domain.TaxBreakdown `json:"breakdown"`
}

func (h *Handler) handleAdvice(w http.ResponseWriter, r *http.Request) {
	year, err := h.year(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in domain.SalaryInput
	if err := decodeBody(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := h.calculate(in, year)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := adviceResponse{Advice: advice.FailureMessage, Breakdown: b}
	if h.Advisor != nil {
		text, err := h.Advisor.Advise(r.Context(), b)
		if err == nil {
			resp.Advice = text
			resp.Available = true
		} else if !errors.Is(err, advice.ErrUnavailable) {
			h.Log.Warn("advice failed", zap.Error(err), zap.String("request_id", middleware.GetRequestID(r.Context())))
		}
	}
	api.Success(w, resp, middleware.GetRequestID(r.Context()))
}

type yearsResponse struct {
	Supported []domain.TaxYear `json:"supported"`
	Default   domain.TaxYear   `json:"default"`
}

func (h *Handler) handleYears(w http.ResponseWriter, r *http.Request) {
	api.Success(w, yearsResponse{
		Supported: calculation.SupportedYears(),
		Default:   h.DefaultYear(),
	}, middleware.GetRequestID(r.Context()))
}

// queryInput reads a salary from query parameters:
// amount, monthly, nonTaxable, dependents, childrenUnder20, children8to20.
func queryInput(r *http.Request) (domain.SalaryInput, error) {
	q := r.URL.Query()
	var in domain.SalaryInput
	var err error

	if strings.TrimSpace(q.Get("amount")) == "" {
		return in, fmt.Errorf("%w: amount is required", domain.ErrInvalidInput)
	}
	if in.Amount, err = queryDecimal(q.Get("amount"), "amount"); err != nil {
		return in, err
	}
	if raw := strings.TrimSpace(q.Get("monthly")); raw != "" {
		if in.IsMonthly, err = strconv.ParseBool(raw); err != nil {
			return in, fmt.Errorf("%w: monthly must be true or false", domain.ErrInvalidInput)
		}
	}
	if in.NonTaxableAllowance, err = queryDecimal(q.Get("nonTaxable"), "nonTaxable"); err != nil {
		return in, err
	}
	n, err := queryInt64(q.Get("dependents"), "dependents")
	if err != nil {
		return in, err
	}
	in.DependentCount = int(n)
	if n, err = queryInt64(q.Get("childrenUnder20"), "childrenUnder20"); err != nil {
		return in, err
	}
	in.ChildrenUnder20 = int(n)
	if raw := strings.TrimSpace(q.Get("children8to20")); raw != "" {
		if n, err = queryInt64(raw, "children8to20"); err != nil {
			return in, err
		}
		in.QualifyingChildren = domain.IntPtr(int(n))
	}
	return in, nil
}

func queryInt64(raw, name string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, name)
	}
	return n, nil
}

func queryDecimal(raw, name string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, name)
	}
	return d, nil
}

func parseYears(raw string) ([]domain.TaxYear, error) {
	var years []domain.TaxYear
	for _, part := range strings.Split(raw, ",") {
		year, err := domain.ParseTaxYear(part)
		if err != nil {
			return nil, err
		}
		years = append(years, year)
	}
	return years, nil
}

