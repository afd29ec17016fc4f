// Package qdrant provides an EventIndex implementation using Qdrant.
package qdrant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/messixieziyi/life-story/internal/domain/ports"
	"github.com/messixieziyi/life-story/internal/infrastructure/config"
)

// Payload keys.
const (
	payloadUserID  = "user_id"
	payloadEventID = "event_id"
	payloadText    = "text"
)

// Index implements ports.EventIndex using one Qdrant collection shared by
// all users. Points are partitioned by a user_id payload filter.
type Index struct {
	client     pb.CollectionsClient
	points     pb.PointsClient
	collection string
	conn       *grpc.ClientConn
}

// NewIndex connects to Qdrant.
func NewIndex(cfg config.QdrantConfig) (*Index, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	opts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if cfg.APIKey != "" {
		opts = append(opts, grpc.WithUnaryInterceptor(apiKeyInterceptor(cfg.APIKey)))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Index{
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
		collection: cfg.Collection,
		conn:       conn,
	}, nil
}

func apiKeyInterceptor(key string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx = metadata.AppendToOutgoingContext(ctx, "api-key", key)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// Close closes the gRPC connection.
func (r *Index) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// EnsureIndex creates the collection if it doesn't exist.
func (r *Index) EnsureIndex(ctx context.Context, vectorSize uint64) error {
	_, err := r.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: r.collection,
	})
	if err == nil {
		return nil
	}

	_, err = r.client.Create(ctx, &pb.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	return nil
}

// DropIndex deletes the collection.
func (r *Index) DropIndex(ctx context.Context) error {
	_, err := r.client.Delete(ctx, &pb.DeleteCollection{
		CollectionName: r.collection,
	})
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	return nil
}

// Upsert stores or replaces documents for userID.
func (r *Index) Upsert(ctx context.Context, userID string, docs []ports.IndexDocument) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, 0, len(docs))
	for _, doc := range docs {
		points = append(points, &pb.PointStruct{
			Id: pointID(userID, doc.ID),
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{
						Data: doc.Vector,
					},
				},
			},
			Payload: map[string]*pb.Value{
				payloadUserID:  {Kind: &pb.Value_StringValue{StringValue: userID}},
				payloadEventID: {Kind: &pb.Value_StringValue{StringValue: doc.ID}},
				payloadText:    {Kind: &pb.Value_StringValue{StringValue: doc.Text}},
			},
		})
	}

	_, err := r.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: r.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upserting points: %w", err)
	}

	return nil
}

// Search returns userID's nearest documents.
func (r *Index) Search(ctx context.Context, userID string, vector []float32, limit int) ([]ports.IndexHit, error) {
	resp, err := r.points.Search(ctx, &pb.SearchPoints{
		CollectionName: r.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		Filter:         userFilter(userID),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	return scoredPointsToHits(resp.Result), nil
}

// Delete removes documents by event id.
func (r *Index) Delete(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIDs := make([]*pb.PointId, 0, len(ids))
	for _, id := range ids {
		pointIDs = append(pointIDs, pointID(userID, id))
	}

	_, err := r.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: r.collection,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{
					Ids: pointIDs,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("deleting points: %w", err)
	}

	return nil
}

// Count returns the number of points stored for userID.
func (r *Index) Count(ctx context.Context, userID string) (uint64, error) {
	resp, err := r.points.Count(ctx, &pb.CountPoints{
		CollectionName: r.collection,
		Filter:         userFilter(userID),
		Exact:          pb.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return resp.Result.Count, nil
}

// pointID derives a stable point UUID. Event ids are store-specific strings,
// so they cannot be used as Qdrant ids directly.
func pointID(userID, eventID string) *pb.PointId {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(userID+"/"+eventID))
	return &pb.PointId{
		PointIdOptions: &pb.PointId_Uuid{Uuid: id.String()},
	}
}

func userFilter(userID string) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{
			{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key: payloadUserID,
						Match: &pb.Match{
							MatchValue: &pb.Match_Keyword{
								Keyword: userID,
							},
						},
					},
				},
			},
		},
	}
}

func scoredPointsToHits(points []*pb.ScoredPoint) []ports.IndexHit {
	hits := make([]ports.IndexHit, 0, len(points))
	for _, point := range points {
		id := getStringValue(point.Payload, payloadEventID)
		if id == "" {
			continue
		}
		hits = append(hits, ports.IndexHit{ID: id, Score: point.Score})
	}
	return hits
}

func getStringValue(payload map[string]*pb.Value, key string) string {
	if v, ok := payload[key]; ok {
		return v.GetStringValue()
	}
	return ""
}
