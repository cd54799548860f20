package handler

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/txreplay/internal/adapter/http/dto"
	"github.com/iho/txreplay/internal/domain"
)

// SnapshotService defines the behavior needed by AccountHandler.
type SnapshotService interface {
	Snapshot() []domain.AccountSnapshot
	Account(client domain.ClientID) (domain.AccountSnapshot, bool)
}

// AccountHandler serves the final account snapshots of a replay.
type AccountHandler struct {
	replay SnapshotService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(replay SnapshotService) *AccountHandler {
	return &AccountHandler{replay: replay}
}

// List lists all account snapshots sorted by client id.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps := h.replay.Snapshot()
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Client < snaps[j].Client })

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromSnapshots(snaps),
		Total:    int64(len(snaps)),
	})
}

// Get retrieves one account snapshot by client id.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "client")

	client, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid client id", raw)
		return
	}

	snap, ok := h.replay.Account(domain.ClientID(client))
	if !ok {
		writeError(w, http.StatusNotFound, "account not found", raw)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromSnapshot(snap))
}
