package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"mana-universe-api/internal/application/prompttemplate"
	"mana-universe-api/internal/config"
	"mana-universe-api/internal/domain/entity"
	apperrors "mana-universe-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

type fakeTemplates struct {
	items   []*entity.PromptTemplate
	created prompttemplate.CreateInput
	updated prompttemplate.UpdateInput
}

func (f *fakeTemplates) List(context.Context, string) ([]*entity.PromptTemplate, error) {
	return f.items, nil
}

func (f *fakeTemplates) Get(_ context.Context, userID, id string) (*entity.PromptTemplate, error) {
	for _, t := range f.items {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return nil, apperrors.ErrTemplateNotFound
}

func (f *fakeTemplates) Create(_ context.Context, userID string, in prompttemplate.CreateInput) (*entity.PromptTemplate, error) {
	f.created = in
	return &entity.PromptTemplate{ID: "t-new", UserID: userID, Name: in.Name, Content: in.Content, Version: 1}, nil
}

func (f *fakeTemplates) Update(ctx context.Context, userID, id string, in prompttemplate.UpdateInput) (*entity.PromptTemplate, error) {
	f.updated = in
	t, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.Revise(in.Name, in.Content, in.Model)
	return t, nil
}

func (f *fakeTemplates) Delete(context.Context, string, string) error {
	if len(f.items) <= 1 {
		return apperrors.ErrLastTemplate
	}
	return nil
}

type fakeModels struct{}

func (fakeModels) Default() string { return "m-default" }

func (fakeModels) Options() []config.ModelOption {
	return []config.ModelOption{{ID: "m-default", Label: "Default"}, {ID: "m-2", Label: "Second"}}
}

func newTemplateRouter(svc PromptTemplateService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	})
	h := NewPromptTemplateHandler(svc, fakeModels{})
	r.GET("/v1/models", h.ListModels)
	r.GET("/v1/prompt-templates", h.List)
	r.POST("/v1/prompt-templates", h.Create)
	r.GET("/v1/prompt-templates/:tid", h.Get)
	r.PUT("/v1/prompt-templates/:tid", h.Update)
	r.DELETE("/v1/prompt-templates/:tid", h.Delete)
	return r
}

func TestPromptTemplateHandler_Models(t *testing.T) {
	r := newTemplateRouter(&fakeTemplates{})
	rec := doJSON(r, http.MethodGet, "/v1/models", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d", rec.Code)
	}
	var body struct {
		Data struct {
			Default string `json:"default"`
			Models  []struct {
				ID string `json:"id"`
			} `json:"models"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Default != "m-default" || len(body.Data.Models) != 2 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPromptTemplateHandler_CRUD(t *testing.T) {
	svc := &fakeTemplates{items: []*entity.PromptTemplate{
		{ID: "t-1", UserID: "user-1", Name: "Default", Content: "{USER_PROMPT}", Version: 1},
	}}
	r := newTemplateRouter(svc)

	rec := doJSON(r, http.MethodPost, "/v1/prompt-templates", map[string]any{"name": "Noir", "content": "dark {USER_PROMPT}", "is_default": true})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if svc.created.Name != "Noir" || !svc.created.IsDefault {
		t.Fatalf("unexpected create input: %+v", svc.created)
	}

	rec = doJSON(r, http.MethodPost, "/v1/prompt-templates", map[string]any{"name": "No content"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing content status: got=%d", rec.Code)
	}

	rec = doJSON(r, http.MethodPut, "/v1/prompt-templates/t-1", map[string]any{"content": "new {USER_PROMPT}"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status: got=%d", rec.Code)
	}
	if svc.items[0].Version != 2 {
		t.Fatalf("version not bumped: %d", svc.items[0].Version)
	}

	rec = doJSON(r, http.MethodGet, "/v1/prompt-templates/t-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing template status: got=%d", rec.Code)
	}

	rec = doJSON(r, http.MethodDelete, "/v1/prompt-templates/t-1", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("last template delete status: got=%d", rec.Code)
	}
}
