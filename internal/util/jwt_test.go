package util

import (
	"testing"
	"time"

	"examind_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		BaseModel: model.BaseModel{ID: 7},
		Email:     "a@b.c",
		Role:      model.Teacher,
	}

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 7 || claims.Role != model.Teacher || claims.Email != "a@b.c" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.Student}
	token, err := GenerateJWT(user, "secret-one", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "secret-two"); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 1}, Role: model.Student}
	token, err := GenerateJWT(user, "s", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "s"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
