package persistence

import (
	"github.com/crm/backend/internal/domain/contact"
	"github.com/crm/backend/internal/domain/tag"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The note-subtree helpers are shared between the contact and note
// repositories: a note saved through its contact and a note saved on
// its own must reconcile statements and tag attachments identically.

// saveNoteTree writes one note row, reconciles its statements against
// the stored rows, and re-syncs tag attachments for the note and every
// statement.
func saveNoteTree(tx *gorm.DB, policy tag.CascadePolicy, n *contact.Note) error {
	model := models.NoteModelFromDomain(n)
	if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}

	currentStatementIDs := make([]uuid.UUID, len(n.Statements))
	for i := range n.Statements {
		currentStatementIDs[i] = n.Statements[i].ID
	}

	var removedStatementIDs []uuid.UUID
	query := tx.Model(&models.StatementModel{}).Where("note_id = ?", n.ID)
	if len(currentStatementIDs) > 0 {
		query = query.Where("id NOT IN ?", currentStatementIDs)
	}
	if err := query.Pluck("id", &removedStatementIDs).Error; err != nil {
		return err
	}
	if len(removedStatementIDs) > 0 {
		if err := deleteOwnerTags(tx, policy, string(tag.OwnerKindStatement), removedStatementIDs); err != nil {
			return err
		}
		if err := tx.Delete(&models.StatementModel{}, "id IN ?", removedStatementIDs).Error; err != nil {
			return err
		}
	}

	for i := range n.Statements {
		n.Statements[i].NoteID = n.ID
		stmtModel := models.StatementModelFromDomain(&n.Statements[i])
		if err := tx.Save(stmtModel).Error; err != nil {
			return err
		}
		if err := syncOwnerTags(tx, tag.StatementOwner(n.Statements[i].ID), n.Statements[i].Tags); err != nil {
			return err
		}
	}

	return syncOwnerTags(tx, tag.NoteOwner(n.ID), n.Tags)
}

// deleteNoteSubtrees removes the given notes with their statements and
// the tag attachments of both.
func deleteNoteSubtrees(tx *gorm.DB, policy tag.CascadePolicy, noteIDs []uuid.UUID) error {
	if len(noteIDs) == 0 {
		return nil
	}

	var statementIDs []uuid.UUID
	if err := tx.Model(&models.StatementModel{}).
		Where("note_id IN ?", noteIDs).
		Pluck("id", &statementIDs).Error; err != nil {
		return err
	}

	if err := deleteOwnerTags(tx, policy, string(tag.OwnerKindStatement), statementIDs); err != nil {
		return err
	}
	if err := deleteOwnerTags(tx, policy, string(tag.OwnerKindNote), noteIDs); err != nil {
		return err
	}
	if len(statementIDs) > 0 {
		if err := tx.Delete(&models.StatementModel{}, "id IN ?", statementIDs).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&models.NoteModel{}, "id IN ?", noteIDs).Error
}

// deleteOwnerTags removes tag rows of the given owners unless the
// cascade policy says to detach only.
func deleteOwnerTags(tx *gorm.DB, policy tag.CascadePolicy, ownerKind string, ownerIDs []uuid.UUID) error {
	if policy == tag.DetachOnly || len(ownerIDs) == 0 {
		return nil
	}
	return tx.Delete(&models.TagModel{}, "owner_kind = ? AND owner_id IN ?", ownerKind, ownerIDs).Error
}

// syncOwnerTags reconciles the stored tag rows of one owner with the
// aggregate's current attachments.
func syncOwnerTags(tx *gorm.DB, owner tag.OwnerRef, tags []tag.Tag) error {
	currentIDs := make([]uuid.UUID, len(tags))
	for i := range tags {
		currentIDs[i] = tags[i].ID
	}

	query := tx.Where("owner_kind = ? AND owner_id = ?", string(owner.Kind), owner.ID)
	if len(currentIDs) > 0 {
		query = query.Where("id NOT IN ?", currentIDs)
	}
	if err := query.Delete(&models.TagModel{}).Error; err != nil {
		return err
	}

	for i := range tags {
		tags[i].Owner = owner
		model := models.TagModelFromDomain(&tags[i])
		if err := tx.Save(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// loadNoteTags attaches stored tag rows to notes and their statements.
// Owner IDs alone are ambiguous across entity types, so rows are
// bucketed by kind and ID together.
func loadNoteTags(db *gorm.DB, notes []*contact.Note) error {
	if len(notes) == 0 {
		return nil
	}

	var ownerIDs []uuid.UUID
	for _, n := range notes {
		ownerIDs = append(ownerIDs, n.ID)
		for j := range n.Statements {
			ownerIDs = append(ownerIDs, n.Statements[j].ID)
		}
	}

	var tagModels []models.TagModel
	if err := db.
		Where("owner_id IN ?", ownerIDs).
		Order("name ASC").
		Find(&tagModels).Error; err != nil {
		return err
	}

	byOwner := bucketTagsByOwner(tagModels)
	for _, n := range notes {
		n.Tags = byOwner[ownerKey{kind: string(tag.OwnerKindNote), id: n.ID}]
		for j := range n.Statements {
			s := &n.Statements[j]
			s.Tags = byOwner[ownerKey{kind: string(tag.OwnerKindStatement), id: s.ID}]
		}
	}
	return nil
}

type ownerKey struct {
	kind string
	id   uuid.UUID
}

func bucketTagsByOwner(tagModels []models.TagModel) map[ownerKey][]tag.Tag {
	byOwner := make(map[ownerKey][]tag.Tag)
	for i := range tagModels {
		t := tagModels[i].ToDomain()
		key := ownerKey{kind: string(t.Owner.Kind), id: t.Owner.ID}
		byOwner[key] = append(byOwner[key], *t)
	}
	return byOwner
}
