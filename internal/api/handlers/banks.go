package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/willardjansen/cubby-remote-reaper/internal/catalog"
	"github.com/willardjansen/cubby-remote-reaper/internal/logger"
	"github.com/willardjansen/cubby-remote-reaper/internal/metrics"
	"github.com/willardjansen/cubby-remote-reaper/internal/reabank"
)

// SourceLoader re-reads the configured bank definition files. It lives
// outside the core on purpose: the parser and store never touch the file
// system themselves.
type SourceLoader func() ([]catalog.Source, error)

// BanksHandler serves the classified bank tree, search, and reload.
type BanksHandler struct {
	store   *catalog.Store
	loader  SourceLoader
	metrics *metrics.SentryMetrics
}

func NewBanksHandler(store *catalog.Store, loader SourceLoader) *BanksHandler {
	return &BanksHandler{
		store:   store,
		loader:  loader,
		metrics: metrics.NewSentryMetrics(),
	}
}

// bankJSON is the wire shape of one bank leaf.
type bankJSON struct {
	MSB           int                    `json:"msb"`
	LSB           int                    `json:"lsb"`
	Key           string                 `json:"key"`
	Name          string                 `json:"name"`
	Label         string                 `json:"label"`
	Articulations []reabank.Articulation `json:"articulations"`
}

// folderJSON is the wire shape of one folder node, children sorted by
// name for stable rendering.
type folderJSON struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	Banks    []bankJSON   `json:"banks"`
	Children []folderJSON `json:"children"`
}

// GetTree returns the whole classified hierarchy plus the parse errors
// from the last reload.
func (h *BanksHandler) GetTree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"banks":  len(h.store.Banks()),
		"errors": h.store.Errors(),
		"tree":   folderToJSON(h.store.Tree()),
	})
}

// Search filters the flat bank list: every whitespace-separated term must
// appear in the bank name, case-insensitively.
func (h *BanksHandler) Search(c *gin.Context) {
	query := c.Query("q")
	matched := catalog.Search(h.store.Banks(), query)

	results := make([]bankJSON, 0, len(matched))
	for _, bank := range matched {
		results = append(results, toBankJSON(bank, bank.Name))
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

// Reload re-reads every bank source and rebuilds the store wholesale.
// Parse errors are data, not failures: the response is 200 with the error
// list whenever the files could be read at all.
func (h *BanksHandler) Reload(c *gin.Context) {
	sources, err := h.loader()
	if err != nil {
		logger.Error("Failed to load bank sources", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	count, parseErrors := h.store.Reload(sources)
	h.metrics.RecordBankParse(c.Request.Context(), len(sources), count, len(parseErrors), time.Since(start))

	logger.Info("Bank sources reloaded", logger.Fields{
		"sources":      len(sources),
		"banks":        count,
		"parse_errors": len(parseErrors),
	})
	c.JSON(http.StatusOK, gin.H{"banks": count, "errors": parseErrors})
}

func folderToJSON(f *catalog.Folder) folderJSON {
	out := folderJSON{
		Name:     f.Name,
		Path:     f.Path,
		Banks:    make([]bankJSON, 0, len(f.Banks)),
		Children: []folderJSON{},
	}
	for _, entry := range f.Banks {
		out.Banks = append(out.Banks, toBankJSON(entry.Bank, entry.Label))
	}
	for _, child := range f.SortedChildren() {
		out.Children = append(out.Children, folderToJSON(child))
	}
	return out
}

func toBankJSON(bank *reabank.Bank, label string) bankJSON {
	return bankJSON{
		MSB:           bank.MSB,
		LSB:           bank.LSB,
		Key:           bank.Key(),
		Name:          bank.Name,
		Label:         label,
		Articulations: bank.Articulations,
	}
}
