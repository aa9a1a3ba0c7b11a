package testutil

import (
	"context"
	"encoding/base64"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/entities"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
)

// PNG is the smallest header mimetype recognises as image/png.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func PNGDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(PNG)
}

func CreateUser(t *testing.T, db *gorm.DB, username, role string) *entities.User {
	t.Helper()
	u := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Test",
		Password:  "x",
		Role:      role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	i := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(i).Error; err != nil {
		t.Fatalf("create ingredient %s: %v", name, err)
	}
	return i
}

func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("create tag %s: %v", slug, err)
	}
	return tag
}

// RecipeSpec describes a recipe fixture. Amounts maps ingredient id to
// amount.
type RecipeSpec struct {
	Name    string
	PubDate time.Time
	Amounts map[uuid.UUID]int
	Tags    []*entities.Tag
}

func CreateRecipe(t *testing.T, db *gorm.DB, author *entities.User, spec RecipeSpec) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        spec.Name,
		Text:        "Mix and bake.",
		Image:       "https://cdn.test/recipes/images/" + spec.Name + ".png",
		CookingTime: 30,
		PubDate:     spec.PubDate,
	}
	if err := db.Omit(clause.Associations).Create(r).Error; err != nil {
		t.Fatalf("create recipe %s: %v", spec.Name, err)
	}
	for ingredientID, amount := range spec.Amounts {
		a := &entities.IngredientAmount{RecipeID: r.ID, IngredientID: ingredientID, Amount: amount}
		if err := db.Omit(clause.Associations).Create(a).Error; err != nil {
			t.Fatalf("create amount: %v", err)
		}
	}
	for _, tag := range spec.Tags {
		if err := db.Exec("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)", r.ID, tag.ID).Error; err != nil {
			t.Fatalf("tag recipe: %v", err)
		}
	}
	return r
}

// FakeStorage keeps uploads in memory and records deletions.
type FakeStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
}

var _ storage.AwsS3 = (*FakeStorage)(nil)

const fakeBaseURL = "https://cdn.test/"

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Objects: map[string][]byte{}}
}

func (f *FakeStorage) UploadFile(_ context.Context, fileName string, data []byte, folder string, allowed ...string) (string, error) {
	if _, err := storage.CheckContentType(data, allowed...); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := path.Join(folder, fileName)
	f.Objects[key] = data
	return key, nil
}

func (f *FakeStorage) DeleteFile(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, objectKey)
	f.Deleted = append(f.Deleted, objectKey)
	return nil
}

func (f *FakeStorage) GetPublicLinkKey(objectKey string) string {
	return fakeBaseURL + objectKey
}

func (f *FakeStorage) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, fakeBaseURL) {
		return ""
	}
	return strings.TrimPrefix(link, fakeBaseURL)
}

type SentMail struct {
	To          string
	Subject     string
	Body        string
	Attachments []mailing.Attachment
}

type FakeMailer struct {
	mu   sync.Mutex
	Sent []SentMail
}

var _ mailing.Mailer = (*FakeMailer)(nil)

func (m *FakeMailer) SendMail(toEmail string, subject string, body string, attachments ...mailing.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: toEmail, Subject: subject, Body: body, Attachments: attachments})
	return nil
}

// MemoryBlacklist is an in-process TokenBlacklist.
type MemoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{revoked: map[string]time.Time{}}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = time.Now().Add(ttl)
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	until, ok := b.revoked[token]
	return ok && time.Now().Before(until), nil
}
