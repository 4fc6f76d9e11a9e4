package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	domainproperty "stayfinder/internal/domain/property"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("properties")}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.PropertyID) (*domainproperty.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PropertyRepository) IDsByOwner(ctx context.Context, ownerID string) ([]domainproperty.PropertyID, error) {
	cursor, err := r.col.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []domainproperty.PropertyID
	for cursor.Next(ctx) {
		var doc propertyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, domainproperty.PropertyID(doc.ID))
	}
	return out, cursor.Err()
}

type propertyDocument struct {
	ID        string `bson:"_id"`
	OwnerID   string `bson:"owner_id"`
	Name      string `bson:"name"`
	Location  string `bson:"location"`
	MaxGuests int    `bson:"max_guests"`
}

func (d propertyDocument) toDomain() *domainproperty.Property {
	return &domainproperty.Property{
		ID:        domainproperty.PropertyID(d.ID),
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Location:  d.Location,
		MaxGuests: d.MaxGuests,
	}
}
