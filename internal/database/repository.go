package database

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
)

// SemanticSearch returns the chunks closest to the query embedding by cosine distance.
func (db *DB) SemanticSearch(ctx context.Context, queryEmbeddings []float32, limit int) ([]Chunk, error) {
	// Convert embeddings to pgvector embeddings
	pgvectorEmbeddings := pgvector.NewVector(queryEmbeddings)

	query := `
	SELECT
	  id,
	  document_id,
	  content,
	  embedding <=> $1 AS distance
	FROM document_chunks
	ORDER BY distance ASC
	LIMIT $2`

	rows, err := db.Pool.Query(ctx, query, pgvectorEmbeddings, limit)
	if err != nil {
		return nil, fmt.Errorf("Unable to query the database: %w", err)
	}

	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var chunk Chunk

		if err := rows.Scan(&chunk.Id, &chunk.DocumentID, &chunk.Content, &chunk.Distance); err != nil {
			return nil, fmt.Errorf("Failed to scan chunk: %w", err)
		}

		chunks = append(chunks, chunk)
	}

	// Rows errors catch
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}

// CountChunks reports how many chunks are indexed.
func (db *DB) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("unable to count chunks: %w", err)
	}

	return count, nil
}
