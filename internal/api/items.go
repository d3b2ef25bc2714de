package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/focusflow/focusflow/internal/loot"
)

// The item catalog is compiled in, so the payload and its ETag are built once.
// Clients cache the catalog and revalidate with If-None-Match.
var catalogBody, catalogETag = buildCatalogPayload()

func buildCatalogPayload() ([]byte, string) {
	payload := struct {
		Items []loot.Item `json:"items"`
		Count int         `json:"count"`
	}{
		Items: loot.Catalog(),
		Count: loot.CatalogSize(),
	}
	blob, _ := json.Marshal(payload)
	sum := sha256.Sum256(blob)
	return blob, `W/"` + hex.EncodeToString(sum[:]) + `"`
}

// handleListItems serves the full item catalog. Public: the catalog contains
// no user data and the chest UI needs it before login.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", catalogETag)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if r.Header.Get("If-None-Match") == catalogETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(catalogBody)
}
