package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bssahu/langfuse-rag-bedrock/internal/config"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/commonModels"
	"github.com/bssahu/langfuse-rag-bedrock/internal/domain/ragErrors"
	"github.com/bssahu/langfuse-rag-bedrock/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger *logger_i.Logger
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj           *qdrant.Client
	collectionName string
	topK           uint64
	scoreThreshold float32
}

func GetQuadrantClient(ctx context.Context, set config.Settings) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(set)
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:           quadrantInstance,
		collectionName: set.QdrantCollectionName,
		topK:           uint64(set.SearchTopK),
		scoreThreshold: set.SearchScoreThreshold,
	}
}

func newClient(set config.Settings) *qdrant.Client {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     set.QdrantHost,
		Port:     set.QdrantPort,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	err = createCollection(context.Background(), client, set.QdrantCollectionName)
	if err != nil {
		logger.Error("could not create collection: ", "collectionName", set.QdrantCollectionName, "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Search(ctx context.Context, vectorFloat []float32) ([]commonModels.SourceChunk, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collectionName,
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(db.topK),
		ScoreThreshold: qdrant.PtrOf(db.scoreThreshold),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, wrapQdrantError("vector search failed", err)
	}

	var matches []commonModels.SourceChunk
	for _, hit := range result {
		matches = append(matches, commonModels.SourceChunk{
			Text:  hit.Payload["content"].GetStringValue(),
			Score: hit.Score,
			Metadata: map[string]any{
				"source":        hit.Payload["doc_name"].GetStringValue(),
				"source_doc_id": hit.Payload["source_doc_id"].GetStringValue(),
				"page":          hit.Payload["page_num"].GetIntegerValue(),
				"chunk_order":   hit.Payload["chunk_order"].GetIntegerValue(),
				"chunk_id":      hit.Payload["chunk_id"].GetStringValue(),
				"ingested_at":   hit.Payload["ingested_at"].GetIntegerValue(),
			},
		})
	}

	loggr.Debug("Search finished", "matches", len(matches))
	return matches, nil
}

func (db *ClientHolder) CreateCollection(ctx context.Context, collectionName string) error {
	if err := createCollection(ctx, db.QObj, collectionName); err != nil {
		return wrapQdrantError("collection init failed", err)
	}
	return nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"content":       chunk.Chunk,
				"page_num":      chunk.PageNum,
				"source_doc_id": chunk.Doc.Id,
				"doc_name":      chunk.Doc.Name,
				"chunk_order":   chunk.ChunkPageOrder,
				"chunk_id":      chunk.ChunkId,
				"ingested_at":   chunk.Doc.LastIngestTimestamp.Unix(),
			}),
		}
	}

	// Wait=true so a reported success means the points are durable. There is
	// still no atomicity across batches of the same document.
	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return wrapQdrantError("qdrant upsert failed", err)
	}

	return nil
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}

func wrapQdrantError(message string, err error) error {
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
			message = "vector store unreachable"
		}
	}
	return ragErrors.Wrap(ragErrors.VectorStoreUnavailable, message, err)
}
