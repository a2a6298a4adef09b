// Package payments creates payment intents with the card processor. The
// provider call is pass-through: the backend forwards an amount and hands
// the resulting client secret to the frontend.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"tixplate/apperr"
	"tixplate/utils"
)

// IntentCreator is the surface the route handler consumes.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error)
}

type Client struct {
	secretKey string
	baseURL   string
	httpc     *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   "https://api.stripe.com/v1",
		httpc:     &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateIntent posts a form-encoded payment_intents request and returns
// the client secret.
func (c *Client) CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payments: provider error (status %d): %s", resp.StatusCode, body)
	}

	var decoded struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", err
	}
	return decoded.ClientSecret, nil
}

type Handler struct {
	Intents IntentCreator
}

type intentRequest struct {
	Items []struct {
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	} `json:"items"`
}

// CreateIntent totals the checkout lines and asks the provider for an
// intent. The amount is computed server side; the frontend only names
// the items.
func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Items) == 0 {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}

	var total float64
	for _, item := range req.Items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		total += item.Price * float64(qty)
	}
	amountCents := int64(math.Round(total * 100))
	if amountCents <= 0 {
		utils.RespondWithError(w, apperr.BadInput("Invalid inputs passed, please check your data"))
		return
	}

	secret, err := h.Intents.CreateIntent(r.Context(), amountCents, "usd")
	if err != nil {
		utils.RespondWithError(w, apperr.Internal("Could not create payment intent"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"clientSecret": secret})
}
