package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/tripfolio/tripfolio/internal/api/models"
	"github.com/tripfolio/tripfolio/internal/api/response"
	"github.com/tripfolio/tripfolio/internal/fxrates"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// FxHandler handles exchange rate endpoints used for pricing display.
type FxHandler struct {
	rates *fxrates.Service
}

// NewFxHandler creates a new FxHandler.
func NewFxHandler(rates *fxrates.Service) *FxHandler {
	return &FxHandler{rates: rates}
}

// GetRates handles GET /v1/fx/rates - rate table for a base currency.
func (h *FxHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if base == "" {
		base = "USD"
	}
	if !currencyCodePattern.MatchString(base) {
		response.BadRequest(w, r, "base must be a three-letter currency code", nil)
		return
	}

	table, err := h.rates.GetRates(r.Context(), base)
	if err != nil {
		response.ServiceUnavailable(w, r, "exchange rates unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.FxRateTable{
		Base:      table.Base,
		Rates:     table.Rates,
		FetchedAt: models.Timestamp(table.FetchedAt),
	})
}

// Convert handles GET /v1/fx/convert - convert a cent amount between currencies.
func (h *FxHandler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amountCents, err := strconv.ParseInt(q.Get("amountCents"), 10, 64)
	if err != nil {
		response.BadRequest(w, r, "amountCents must be an integer", nil)
		return
	}

	from := strings.ToUpper(q.Get("from"))
	to := strings.ToUpper(q.Get("to"))
	if !currencyCodePattern.MatchString(from) || !currencyCodePattern.MatchString(to) {
		response.BadRequest(w, r, "from and to must be three-letter currency codes", nil)
		return
	}

	converted, err := h.rates.ConvertCents(r.Context(), amountCents, from, to)
	if err != nil {
		if errors.Is(err, fxrates.ErrUnknownCurrency) {
			response.BadRequest(w, r, "unknown currency code", nil)
			return
		}
		response.ServiceUnavailable(w, r, "exchange rates unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.FxConversion{
		AmountCents:    amountCents,
		From:           from,
		To:             to,
		ConvertedCents: converted,
	})
}
