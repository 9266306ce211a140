package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ericfisherdev/workoutlog/internal/domain/model"
	"github.com/ericfisherdev/workoutlog/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SessionStore = (*SessionRepo)(nil)

// storedCredential is the serialized form of a credential at rest.
type storedCredential struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// SessionRepo is the SQLite implementation of the SessionStore port.
// Credentials are serialized to JSON and encrypted with AES-256-GCM before
// write; session ids are stored in the clear so lookups stay indexable.
type SessionRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key.
}

// NewSessionRepo creates a SessionRepo. key must be 32 bytes for AES-256-GCM.
func NewSessionRepo(db *DB, key []byte) (*SessionRepo, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("session store key must be 32 bytes, got %d", len(key))
	}
	return &SessionRepo{db: db, key: key}, nil
}

// Issue generates a fresh identifier and stores the encrypted credential
// under it.
func (r *SessionRepo) Issue(ctx context.Context, cred model.Credential) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}

	plaintext, err := json.Marshal(storedCredential{
		AccessToken:  cred.AccessToken,
		TokenType:    cred.TokenType,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.Expiry,
	})
	if err != nil {
		return "", fmt.Errorf("marshal credential: %w", err)
	}

	encrypted, err := r.encrypt(plaintext)
	if err != nil {
		return "", err
	}

	const query = `INSERT INTO sessions (id, credential) VALUES (?, ?)`
	if _, err := r.db.Writer.ExecContext(ctx, query, id, encrypted); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	return id, nil
}

// Resolve returns the credential bound to id, or driven.ErrSessionNotFound.
func (r *SessionRepo) Resolve(ctx context.Context, id string) (model.Credential, error) {
	const query = `SELECT credential FROM sessions WHERE id = ?`

	var encrypted string
	err := r.db.Reader.QueryRowContext(ctx, query, id).Scan(&encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credential{}, driven.ErrSessionNotFound
	}
	if err != nil {
		return model.Credential{}, fmt.Errorf("get session: %w", err)
	}

	plaintext, err := r.decrypt(encrypted)
	if err != nil {
		return model.Credential{}, fmt.Errorf("decrypt session credential: %w", err)
	}

	var stored storedCredential
	if err := json.Unmarshal(plaintext, &stored); err != nil {
		return model.Credential{}, fmt.Errorf("unmarshal session credential: %w", err)
	}

	return model.Credential{
		AccessToken:  stored.AccessToken,
		TokenType:    stored.TokenType,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.Expiry,
	}, nil
}

// Revoke removes id. Revoking an absent id is a no-op.
func (r *SessionRepo) Revoke(ctx context.Context, id string) error {
	const query = `DELETE FROM sessions WHERE id = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Exists reports whether id is bound to a live session.
func (r *SessionRepo) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM sessions WHERE id = ?`

	var one int
	err := r.db.Reader.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}

	return true, nil
}

// newSessionID returns 16 random bytes hex encoded.
func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// encrypt encrypts plaintext with AES-256-GCM and returns a base64 string of
// nonce || ciphertext || tag.
func (r *SessionRepo) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *SessionRepo) decrypt(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("gcm.Open: %w", err)
	}

	return plaintext, nil
}
