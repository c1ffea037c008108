package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/psharma/finledger/pkg/config"
	"github.com/psharma/finledger/pkg/ledger"
	"github.com/psharma/finledger/pkg/logger"
	"github.com/psharma/finledger/pkg/models"
	"github.com/psharma/finledger/pkg/networth"
	"github.com/psharma/finledger/pkg/store"
)

// dueSoonDays is the reminder window for the daily liability sweep.
const dueSoonDays = 7

// Server exposes the ledger over HTTP.
type Server struct {
	store *ledger.Store
	log   zerolog.Logger
}

func NewServer(s *ledger.Store, log zerolog.Logger) *Server {
	return &Server{store: s, log: log.With().Str("component", "api").Logger()}
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/loans", s.listLoansHandler).Methods("GET")
	r.HandleFunc("/loans", s.createLoanHandler).Methods("POST")
	r.HandleFunc("/loans/{id}", s.getLoanHandler).Methods("GET")
	r.HandleFunc("/loans/{id}", s.updateLoanHandler).Methods("PUT")
	r.HandleFunc("/loans/{id}", s.deleteLoanHandler).Methods("DELETE")
	r.HandleFunc("/loans/{id}/emi-payments", s.payEMIHandler).Methods("POST")

	r.HandleFunc("/assets", s.listAssetsHandler).Methods("GET")
	r.HandleFunc("/assets", s.createAssetHandler).Methods("POST")
	r.HandleFunc("/assets/{id}", s.getAssetHandler).Methods("GET")
	r.HandleFunc("/assets/{id}", s.updateAssetHandler).Methods("PUT")
	r.HandleFunc("/assets/{id}", s.deleteAssetHandler).Methods("DELETE")

	r.HandleFunc("/liabilities", s.listLiabilitiesHandler).Methods("GET")
	r.HandleFunc("/liabilities", s.createLiabilityHandler).Methods("POST")
	r.HandleFunc("/liabilities/{id}", s.getLiabilityHandler).Methods("GET")
	r.HandleFunc("/liabilities/{id}", s.updateLiabilityHandler).Methods("PUT")
	r.HandleFunc("/liabilities/{id}", s.deleteLiabilityHandler).Methods("DELETE")
	r.HandleFunc("/liabilities/{id}/toggle", s.toggleLiabilityHandler).Methods("POST")

	r.HandleFunc("/networth", s.netWorthHandler).Methods("GET")

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) listLoansHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot().Loans)
}

func (s *Server) createLoanHandler(w http.ResponseWriter, r *http.Request) {
	var loan models.Loan
	if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := s.store.AddLoan(loan)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getLoanHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, l := range s.store.Snapshot().Loans {
		if l.ID == id {
			writeJSON(w, http.StatusOK, l)
			return
		}
	}
	http.Error(w, "Loan not found", http.StatusNotFound)
}

func (s *Server) updateLoanHandler(w http.ResponseWriter, r *http.Request) {
	var loan models.Loan
	if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	loan.ID = mux.Vars(r)["id"] // Ensure ID from URL is used
	if err := s.store.UpdateLoan(loan); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) deleteLoanHandler(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteLoan(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) payEMIHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.store.PayEMI(id)
	for _, l := range s.store.Snapshot().Loans {
		if l.ID == id {
			writeJSON(w, http.StatusOK, l)
			return
		}
	}
	http.Error(w, "Loan not found", http.StatusNotFound)
}

func (s *Server) listAssetsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot().Assets)
}

func (s *Server) createAssetHandler(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := s.store.AddAsset(asset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getAssetHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, a := range s.store.Snapshot().Assets {
		if a.ID == id {
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	http.Error(w, "Asset not found", http.StatusNotFound)
}

func (s *Server) updateAssetHandler(w http.ResponseWriter, r *http.Request) {
	var asset models.Asset
	if err := json.NewDecoder(r.Body).Decode(&asset); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	asset.ID = mux.Vars(r)["id"]
	if err := s.store.UpdateAsset(asset); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) deleteAssetHandler(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteAsset(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listLiabilitiesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot().Liabilities)
}

func (s *Server) createLiabilityHandler(w http.ResponseWriter, r *http.Request) {
	var liability models.Liability
	if err := json.NewDecoder(r.Body).Decode(&liability); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := s.store.AddLiability(liability)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getLiabilityHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	for _, li := range s.store.Snapshot().Liabilities {
		if li.ID == id {
			writeJSON(w, http.StatusOK, li)
			return
		}
	}
	http.Error(w, "Liability not found", http.StatusNotFound)
}

func (s *Server) updateLiabilityHandler(w http.ResponseWriter, r *http.Request) {
	var liability models.Liability
	if err := json.NewDecoder(r.Body).Decode(&liability); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	liability.ID = mux.Vars(r)["id"]
	if err := s.store.UpdateLiability(liability); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, liability)
}

func (s *Server) deleteLiabilityHandler(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteLiability(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleLiabilityHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.store.ToggleLiabilityStatus(id)
	for _, li := range s.store.Snapshot().Liabilities {
		if li.ID == id {
			writeJSON(w, http.StatusOK, li)
			return
		}
	}
	http.Error(w, "Liability not found", http.StatusNotFound)
}

func (s *Server) netWorthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, networth.Compute(s.store.Snapshot()))
}

// logDueLiabilities logs unpaid liabilities that are overdue or due within
// the reminder window. Runs from the daily cron job.
func (s *Server) logDueLiabilities() {
	now := time.Now()
	for _, li := range s.store.Snapshot().Liabilities {
		if li.Status != models.LiabilityStatusUnpaid {
			continue
		}
		days := networth.DaysUntilDue(li, now)
		switch {
		case days < 0:
			s.log.Warn().Str("liability", li.Name).Int("days_overdue", -days).Msg("liability overdue")
		case days <= dueSoonDays:
			s.log.Info().Str("liability", li.Name).Int("days_until_due", days).Msg("liability due soon")
		}
	}
}

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	bucket, err := store.NewSQLiteBucket(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer bucket.Close()

	financeStore := ledger.New(bucket, log)
	financeStore.Initialize(context.Background())
	defer financeStore.Close()

	server := NewServer(financeStore, log)

	c := cron.New()
	if _, err := c.AddFunc("@daily", server.logDueLiabilities); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule due-liability sweep")
	}
	c.Start()
	defer c.Stop()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Msg("server starting")
	if err := http.ListenAndServe(addr, server.router()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
