package httptransport

import (
	"encoding/json"
	"net/http"
	"strings"

	"mastermind-arena/internal/vault"

	"github.com/go-chi/chi/v5"
)

type VaultHandlers struct {
	vault *vault.Vault
}

func NewVaultHandlers(v *vault.Vault) *VaultHandlers {
	return &VaultHandlers{vault: v}
}

type vaultMutationRequest struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

type vaultBalanceResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

func (h *VaultHandlers) Deposit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req vaultMutationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		addr := strings.ToLower(strings.TrimSpace(req.Address))
		if addr == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		balance, err := h.vault.Deposit(r.Context(), addr, req.Amount)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricDepositTotal.Add(1)
		WriteJSON(w, http.StatusOK, vaultBalanceResponse{Address: addr, Balance: balance})
	}
}

func (h *VaultHandlers) Withdraw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req vaultMutationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		addr := strings.ToLower(strings.TrimSpace(req.Address))
		if addr == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		balance, err := h.vault.Withdraw(r.Context(), addr, req.Amount)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		metricWithdrawTotal.Add(1)
		WriteJSON(w, http.StatusOK, vaultBalanceResponse{Address: addr, Balance: balance})
	}
}

func (h *VaultHandlers) Balance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := strings.ToLower(chi.URLParam(r, "address"))
		if addr == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		balance, err := h.vault.Balance(r.Context(), addr)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, vaultBalanceResponse{Address: addr, Balance: balance})
	}
}
