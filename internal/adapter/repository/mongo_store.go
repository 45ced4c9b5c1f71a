package repository

import (
	"context"
	"errors"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ usecase.DocumentStore = (*MongoStore)(nil)

type mongoSection struct {
	domain.Section `bson:",inline"`
	Rank           int64 `bson:"rank"`
}

// MongoStore keeps sections as documents of one collection, ordered by rank.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func byID(id string) bson.M { return bson.M{"_id": id} }

func (m *MongoStore) All(ctx context.Context) ([]domain.Section, error) {
	cur, err := m.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "rank", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []mongoSection
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Section, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Section.Normalize())
	}
	return out, nil
}

func (m *MongoStore) Insert(ctx context.Context, s domain.Section) (domain.Section, error) {
	var last mongoSection
	rank := int64(1)
	err := m.coll.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "rank", Value: -1}})).Decode(&last)
	switch {
	case err == nil:
		rank = last.Rank + 1
	case !errors.Is(err, mongo.ErrNoDocuments):
		return domain.Section{}, err
	}
	if _, err := m.coll.InsertOne(ctx, mongoSection{Section: s, Rank: rank}); err != nil {
		return domain.Section{}, err
	}
	return s, nil
}

func (m *MongoStore) find(ctx context.Context, id string) (mongoSection, error) {
	var d mongoSection
	err := m.coll.FindOne(ctx, byID(id)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return d, domain.ErrSectionNotFound
	}
	return d, err
}

func (m *MongoStore) Get(ctx context.Context, id string) (domain.Section, error) {
	d, err := m.find(ctx, id)
	if err != nil {
		return domain.Section{}, err
	}
	return d.Section.Normalize(), nil
}

// patchDocument turns the non-nil fields of a patch into a $set document.
func patchDocument(p domain.SectionPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.AvatarURL != nil {
		set["avatarUrl"] = *p.AvatarURL
	}
	if p.CompanyLogoURL != nil {
		set["companyLogoUrl"] = *p.CompanyLogoURL
	}
	if p.Position != nil {
		set["position"] = *p.Position
	}
	if p.Projects != nil {
		set["projects"] = *p.Projects
	}
	if p.Languages != nil {
		set["languages"] = *p.Languages
	}
	if p.Technologies != nil {
		techs := *p.Technologies
		if techs == nil {
			techs = []string{}
		}
		set["technologies"] = techs
	}
	return set
}

func (m *MongoStore) Update(ctx context.Context, id string, patch domain.SectionPatch) error {
	set := patchDocument(patch)
	if len(set) == 0 {
		return nil
	}
	_, err := m.coll.UpdateOne(ctx, byID(id), bson.M{"$set": set})
	return err
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	_, err := m.coll.DeleteOne(ctx, byID(id))
	return err
}

// Move swaps rank with the nearest neighbour in dir. The two writes are not
// transactional.
func (m *MongoStore) Move(ctx context.Context, id string, dir domain.Direction) error {
	cur, err := m.find(ctx, id)
	if errors.Is(err, domain.ErrSectionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	filter := bson.M{"rank": bson.M{"$gt": cur.Rank}}
	sort := bson.D{{Key: "rank", Value: 1}}
	if dir == domain.Up {
		filter = bson.M{"rank": bson.M{"$lt": cur.Rank}}
		sort = bson.D{{Key: "rank", Value: -1}}
	}
	var other mongoSection
	err = m.coll.FindOne(ctx, filter, options.FindOne().SetSort(sort)).Decode(&other)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := m.coll.UpdateOne(ctx, byID(cur.ID), bson.M{"$set": bson.M{"rank": other.Rank}}); err != nil {
		return err
	}
	_, err = m.coll.UpdateOne(ctx, byID(other.ID), bson.M{"$set": bson.M{"rank": cur.Rank}})
	return err
}

func (m *MongoStore) findAndUpdate(ctx context.Context, id string, update bson.M) (domain.Section, error) {
	var d mongoSection
	err := m.coll.FindOneAndUpdate(ctx, byID(id), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Section{}, domain.ErrSectionNotFound
	}
	if err != nil {
		return domain.Section{}, err
	}
	return d.Section.Normalize(), nil
}

func (m *MongoStore) SetTechnologies(ctx context.Context, id string, techs []string) (domain.Section, error) {
	return m.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"technologies": techs}})
}

func (m *MongoStore) AddTechnology(ctx context.Context, id, tech string) (domain.Section, error) {
	return m.findAndUpdate(ctx, id, bson.M{"$addToSet": bson.M{"technologies": tech}})
}

func (m *MongoStore) RemoveTechnology(ctx context.Context, id, tech string) (domain.Section, error) {
	return m.findAndUpdate(ctx, id, bson.M{"$pull": bson.M{"technologies": tech}})
}
