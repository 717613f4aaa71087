package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/scribely/backend/internal/models"
	"github.com/scribely/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// ImportedUser is the shape of a user entry in the remote JSON feed
type ImportedUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Importer fetches users from a JSON URL and upserts them by email, up to a
// given limit
type Importer struct {
	userRepository repositories.UserRepository
	client         *http.Client
}

// NewImporter creates a new Importer
func NewImporter(userRepo repositories.UserRepository) *Importer {
	return &Importer{
		userRepository: userRepo,
		client:         &http.Client{Timeout: 30 * time.Second},
	}
}

// Run imports at most limit users from url. Entries without an email are
// skipped; existing users (matched by email) are updated in place. Returns
// how many users were imported.
func (i *Importer) Run(ctx context.Context, url string, limit int) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch users from the URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to fetch users from the URL: status %d", resp.StatusCode)
	}

	var entries []ImportedUser
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return 0, fmt.Errorf("failed to decode users payload: %w", err)
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}

	// Default password for imported accounts
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, entry := range entries {
		if entry.Email == "" {
			continue
		}
		user := &models.User{
			Name:     entry.Name,
			Email:    entry.Email,
			Password: string(hashed),
		}
		if err := i.userRepository.UpsertUserByEmail(user); err != nil {
			return imported, fmt.Errorf("importing user %s: %w", entry.Email, err)
		}
		log.Printf("Imported user: %s (%s)", entry.Name, entry.Email)
		imported++
	}
	return imported, nil
}
