package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
	"github.com/synapsecare/health-risk-api/internal/core/ports"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository on a MongoDB collection.
// The mongo client pools connections, so one repository is shared by all
// requests; the unique index on email is the real guard against duplicate
// registrations racing past the existence check.
type UserRepository struct {
	coll   *mongo.Collection
	hasher ports.PasswordHasher
}

func NewUserRepository(db *mongo.Database, hasher ports.PasswordHasher) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), hasher: hasher}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone"`
	PasswordHash string             `bson:"password_hash"`
	Salt         string             `bson:"salt"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
	IsActive     bool               `bson:"is_active"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		Email:        mu.Email,
		Phone:        mu.Phone,
		PasswordHash: mu.PasswordHash,
		Salt:         mu.Salt,
		IsActive:     mu.IsActive,
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
}

func (r *UserRepository) CreateUser(ctx context.Context, in domain.NewUser) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.coll.FindOne(ctx, bson.M{"email": in.Email},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return "", domain.ErrDuplicateEmail
	case !errors.Is(err, mongo.ErrNoDocuments):
		return "", domain.NewStorageError("find user", err)
	}

	hash, salt := r.hasher.Hash(in.Password)
	now := time.Now().UTC()
	doc := mongoUser{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrDuplicateEmail
		}
		return "", domain.NewStorageError("insert user", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", domain.NewStorageError("insert user", fmt.Errorf("unexpected id type %T", res.InsertedID))
	}
	return oid.Hex(), nil
}

func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.NewStorageError("find user", err)
	}

	if !mu.IsActive {
		return nil, domain.ErrDeactivated
	}
	if !r.hasher.Verify(password, mu.PasswordHash, mu.Salt) {
		return nil, domain.ErrInvalidCredentials
	}

	return mu.toDomain().Public(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	filter := bson.M{"_id": oid, "is_active": true}
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.NewStorageError("find user", err)
	}
	return mu.toDomain().Public(), nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) error {
	set := bson.M{}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if len(set) == 0 {
		return domain.ErrNoFieldsToUpdate
	}
	set["updated_at"] = time.Now().UTC()

	return r.update(ctx, "update user", id, set)
}

func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	return r.update(ctx, "deactivate user", id, bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	})
}

func (r *UserRepository) update(ctx context.Context, op, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		// Only the unique email index can produce this on update.
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return domain.NewStorageError(op, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index backing CreateUser.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}
