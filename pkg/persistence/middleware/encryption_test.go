package middleware_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"

	"github.com/aretw0/vessel/pkg/adapters/memory"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/persistence/middleware"
	"github.com/aretw0/vessel/pkg/ports"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

var secret = []byte("solid tree\nfacet normal 0 0 1\nendsolid tree\n")

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunArtifactStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	original := &domain.Artifact{Key: "abc", Filename: "tree.stl", Data: secret, Triangles: 1}

	if err := secureStore.Save(ctx, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !bytes.Equal(original.Data, secret) {
		t.Fatal("Save must not modify the caller's artifact")
	}

	// The underlying store holds only ciphertext.
	stored, err := underlyingStore.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if bytes.Contains(stored.Data, []byte("facet")) {
		t.Fatal("Expected artifact data to be hidden")
	}
	if stored.Filename != "tree.stl" || stored.Triangles != 1 {
		t.Errorf("Expected metadata to stay readable, got %+v", stored)
	}

	loaded, err := secureStore.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	if !bytes.Equal(loaded.Data, secret) {
		t.Errorf("Expected decrypted data, got %q", loaded.Data)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	if err := secureStoreOld.Save(ctx, &domain.Artifact{Key: "rotation", Data: secret}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "rotation")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if !bytes.Equal(loaded.Data, secret) {
		t.Errorf("Decryption with fallback key failed")
	}

	if err := secureStoreNew.Save(ctx, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}
	if _, err := secureStoreOld.Load(ctx, "rotation"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_KeyBinding(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	ctx := context.Background()

	if err := secureStore.Save(ctx, &domain.Artifact{Key: "a", Data: secret}); err != nil {
		t.Fatal(err)
	}
	moved, err := underlyingStore.Load(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	moved.Key = "b"
	if err := underlyingStore.Save(ctx, moved); err != nil {
		t.Fatal(err)
	}

	if _, err := secureStore.Load(ctx, "b"); err == nil {
		t.Error("Expected ciphertext moved to another key to be rejected")
	}
}

func TestEncryptionMiddleware_RejectsPlain(t *testing.T) {
	underlyingStore := memory.NewStore()
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	ctx := context.Background()

	if err := underlyingStore.Save(ctx, &domain.Artifact{Key: "plain", Data: secret}); err != nil {
		t.Fatal(err)
	}
	if _, err := secureStore.Load(ctx, "plain"); err == nil {
		t.Error("Expected plain artifact to be rejected")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}
