package modekit

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/modekit/modekit/pkg/log"
	"github.com/modekit/modekit/pkg/prompt"
	"github.com/modekit/modekit/pkg/store"
)

// CreateInput carries the fields for a new document. Tools applies to
// chatmodes only.
type CreateInput struct {
	Kind        prompt.Kind
	Name        string
	Description string
	Body        string
	Tools       []string
}

func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Kind, kindRule),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 128), nameRule),
		validation.Field(&in.Tools, validation.By(func(any) error {
			if len(in.Tools) > 0 && in.Kind != prompt.KindChatmode {
				return errToolsOnInstruction
			}
			return nil
		})),
	)
}

// Create writes a new document, refusing to replace an existing one.
func (m *Manager) Create(ctx context.Context, in CreateInput) (*prompt.Document, error) {
	if err := m.mutable(); err != nil {
		return nil, err
	}
	in.Name = prompt.NormalizeName(in.Name, in.Kind)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	doc := prompt.NewDocument(in.Name, in.Kind, in.Description, in.Body, in.Tools)
	if err := m.store.Write(doc, false); err != nil {
		return nil, err
	}
	log.FromContext(ctx).Info("created document", "name", doc.Name, "kind", doc.Kind)
	return doc, nil
}

// Get loads a stored document.
func (m *Manager) Get(ctx context.Context, kind prompt.Kind, name string) (*prompt.Document, error) {
	return m.store.Read(prompt.NormalizeName(name, kind), kind)
}

// UpdateInput carries partial updates; nil fields leave the stored value
// untouched.
type UpdateInput struct {
	Kind        prompt.Kind
	Name        string
	Description *string
	Body        *string
	Tools       []string
}

func (in UpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Kind, kindRule),
		validation.Field(&in.Name, validation.Required, nameRule),
		validation.Field(&in.Tools, validation.By(func(any) error {
			if len(in.Tools) > 0 && in.Kind != prompt.KindChatmode {
				return errToolsOnInstruction
			}
			return nil
		})),
	)
}

// Update loads the stored document, applies the provided fields, and writes
// the result back.
func (m *Manager) Update(ctx context.Context, in UpdateInput) (*prompt.Document, error) {
	if err := m.mutable(); err != nil {
		return nil, err
	}
	in.Name = prompt.NormalizeName(in.Name, in.Kind)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	doc, err := m.store.Read(in.Name, in.Kind)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		doc.SetDescription(*in.Description)
	}
	if in.Body != nil {
		doc.SetBody(*in.Body)
	}
	if in.Tools != nil {
		doc.SetTools(in.Tools)
	}
	if err := m.store.Write(doc, true); err != nil {
		return nil, err
	}
	log.FromContext(ctx).Info("updated document", "name", doc.Name, "kind", doc.Kind)
	return doc, nil
}

// Delete backs the document up, then removes it.
func (m *Manager) Delete(ctx context.Context, kind prompt.Kind, name string) (*store.BackupRecord, error) {
	if err := m.mutable(); err != nil {
		return nil, err
	}
	rec, err := m.store.Delete(prompt.NormalizeName(name, kind), kind)
	if err != nil {
		return nil, err
	}
	log.FromContext(ctx).Info("deleted document", "name", rec.Name, "kind", rec.Kind, "backup", rec.Path)
	return rec, nil
}

// Validate reports the non-fatal violations on a stored document.
func (m *Manager) Validate(ctx context.Context, kind prompt.Kind, name string) ([]prompt.Violation, error) {
	doc, err := m.store.Read(prompt.NormalizeName(name, kind), kind)
	if err != nil {
		return nil, err
	}
	return prompt.Validate(doc), nil
}
