package statusapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IshaanNene/scrapewatch/internal/types"
)

// metaID is the _id of the document holding global counters in the meta collection.
const metaID = "status"

// scraperDoc is one scraper as stored in MongoDB, keyed by BSN.
type scraperDoc struct {
	BSN                 string `bson:"_id"`
	types.ScraperStatus `bson:",inline"`
}

type metaDoc struct {
	ID         string `bson:"_id"`
	CurrStatus string `bson:"curr_status"`
	PageCount  int    `bson:"page_count"`
	TasksCount int    `bson:"tasks_count"`
}

// MongoStore reads scraper state from a MongoDB collection. Global counters
// live in a sibling collection suffixed "_meta".
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	meta       *mongo.Collection
	logger     *slog.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database, collection string, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("connect: %w", err)}
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("ping: %w", err)}
	}

	db := client.Database(database)
	return &MongoStore{
		client:     client,
		collection: db.Collection(collection),
		meta:       db.Collection(collection + "_meta"),
		logger:     logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

func (s *MongoStore) Load(ctx context.Context) (*State, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cur, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("find: %w", err)}
	}
	var docs []scraperDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("decode: %w", err)}
	}

	var meta metaDoc
	err = s.meta.FindOne(ctx, bson.D{{Key: "_id", Value: metaID}}).Decode(&meta)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("read meta: %w", err)}
	}

	st := fromDocs(docs, meta)
	s.logger.Debug("state loaded", "scrapers", len(st.Scrapers))
	return st, nil
}

// Save upserts every scraper in st and the global counters.
func (s *MongoStore) Save(ctx context.Context, st *State) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, meta := toDocs(st)
	if len(docs) > 0 {
		models := make([]mongo.WriteModel, 0, len(docs))
		for _, d := range docs {
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.D{{Key: "_id", Value: d.BSN}}).
				SetReplacement(d).
				SetUpsert(true))
		}
		if _, err := s.collection.BulkWrite(ctx, models); err != nil {
			return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("bulk write: %w", err)}
		}
	}

	_, err := s.meta.ReplaceOne(ctx, bson.D{{Key: "_id", Value: metaID}}, meta, options.Replace().SetUpsert(true))
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("write meta: %w", err)}
	}

	s.logger.Info("state imported", "scrapers", len(docs))
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func fromDocs(docs []scraperDoc, meta metaDoc) *State {
	st := &State{
		CurrStatus: meta.CurrStatus,
		PageCount:  meta.PageCount,
		TasksCount: meta.TasksCount,
		Scrapers:   make(map[string]types.ScraperStatus, len(docs)),
	}
	for _, d := range docs {
		st.Scrapers[d.BSN] = d.ScraperStatus
	}
	return st
}

func toDocs(st *State) ([]scraperDoc, metaDoc) {
	docs := make([]scraperDoc, 0, len(st.Scrapers))
	for bsn, s := range st.Scrapers {
		docs = append(docs, scraperDoc{BSN: bsn, ScraperStatus: s})
	}
	return docs, metaDoc{
		ID:         metaID,
		CurrStatus: st.CurrStatus,
		PageCount:  st.PageCount,
		TasksCount: st.TasksCount,
	}
}
