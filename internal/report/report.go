// Package report runs the canned aggregate reports and the read-only ad hoc
// query console.
package report

import (
	"context"
	"fmt"

	"melodia-backend/internal/store"
)

// Generator executes the canned reports over the streaming schema.
type Generator struct {
	db *store.Store
}

func NewGenerator(db *store.Store) *Generator {
	return &Generator{db: db}
}

const mostPlayedByCountrySQL = `
SELECT
    u.pais AS pais,
    c.titulo_cancion AS titulo_cancion,
    a.nombre_artista AS nombre_artista,
    COUNT(r.id_reproduccion) AS total_reproducciones
FROM reproduccion r
JOIN usuario u ON r.id_usuario = u.id_usuario
JOIN cancion c ON r.id_cancion = c.id_cancion
JOIN artista a ON c.id_artista = a.id_artista
GROUP BY u.pais, c.titulo_cancion, a.nombre_artista
ORDER BY u.pais, total_reproducciones DESC`

const artistCatalogCountsSQL = `
SELECT
    ar.nombre_artista AS artista,
    COUNT(DISTINCT al.id_album) AS total_albumes,
    COUNT(DISTINCT c.id_cancion) AS total_canciones
FROM artista ar
LEFT JOIN album al ON ar.id_artista = al.id_artista
LEFT JOIN cancion c ON ar.id_artista = c.id_artista
GROUP BY ar.nombre_artista
ORDER BY total_albumes DESC, total_canciones DESC`

// MostPlayedByCountry ranks songs by play count within each user country.
func (g *Generator) MostPlayedByCountry(ctx context.Context) ([]map[string]any, error) {
	rows, err := store.QueryRows(ctx, g.db.DB, mostPlayedByCountrySQL)
	if err != nil {
		return nil, fmt.Errorf("most played by country: %w", err)
	}
	return rows, nil
}

// ArtistCatalogCounts totals albums and songs per artist.
func (g *Generator) ArtistCatalogCounts(ctx context.Context) ([]map[string]any, error) {
	rows, err := store.QueryRows(ctx, g.db.DB, artistCatalogCountsSQL)
	if err != nil {
		return nil, fmt.Errorf("artist catalog counts: %w", err)
	}
	return rows, nil
}
