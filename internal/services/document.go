package services

import (
  "context"
  "encoding/json"
  "fmt"
  "io"
  "time"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/quorumdesk/quorumdesk-backend/internal/logger"
  "github.com/quorumdesk/quorumdesk-backend/internal/normalization"
  "github.com/quorumdesk/quorumdesk-backend/internal/repos"
  "github.com/quorumdesk/quorumdesk-backend/internal/storage"
  "github.com/quorumdesk/quorumdesk-backend/internal/types"
)

const downloadURLTTL = 15 * time.Minute

type UploadDocumentInput struct {
  Title         string
  ContentType   string
  SizeBytes     int64
  Tags          []string
  Body          io.Reader
}

type DocumentService interface {
  UploadDocument(ctx context.Context, orgID uuid.UUID, input UploadDocumentInput) (*types.Document, error)
  ListDocuments(ctx context.Context, orgID uuid.UUID) ([]*types.Document, error)
  GetDownloadURL(ctx context.Context, orgID, documentID uuid.UUID) (string, error)
  DeleteDocument(ctx context.Context, orgID, documentID uuid.UUID) error
}

type documentService struct {
  db               *gorm.DB
  log              *logger.Logger
  store            storage.ObjectStore
  documentRepo     repos.DocumentRepo
  membershipRepo   repos.MembershipRepo
}

func NewDocumentService(
  db *gorm.DB,
  log *logger.Logger,
  store storage.ObjectStore,
  documentRepo repos.DocumentRepo,
  membershipRepo repos.MembershipRepo,
) DocumentService {
  serviceLog := log.With("service", "DocumentService")
  return &documentService{
    db:             db,
    log:            serviceLog,
    store:          store,
    documentRepo:   documentRepo,
    membershipRepo: membershipRepo,
  }
}

func (ds *documentService) UploadDocument(ctx context.Context, orgID uuid.UUID, input UploadDocumentInput) (*types.Document, error) {
  actor, err := requireMembership(ctx, nil, ds.membershipRepo, orgID)
  if err != nil {
    return nil, err
  }
  if ds.store == nil {
    return nil, fmt.Errorf("Document storage is not configured")
  }
  title := normalization.TrimInputString(input.Title)
  if title == "" {
    return nil, fmt.Errorf("Document title is required")
  }
  if input.Body == nil {
    return nil, fmt.Errorf("Document body is required")
  }

  docID := uuid.New()
  key := fmt.Sprintf("%s/%s", orgID, docID)
  if uErr := ds.store.Upload(ctx, key, input.Body, input.SizeBytes, input.ContentType); uErr != nil {
    return nil, fmt.Errorf("Failed to upload document: %w", uErr)
  }

  var tags datatypes.JSON
  if len(input.Tags) > 0 {
    raw, jErr := json.Marshal(input.Tags)
    if jErr != nil {
      return nil, fmt.Errorf("Failed to encode tags: %w", jErr)
    }
    tags = datatypes.JSON(raw)
  }
  document := &types.Document{
    ID:             docID,
    OrganizationID: orgID,
    Title:          title,
    BucketKey:      key,
    ContentType:    input.ContentType,
    SizeBytes:      input.SizeBytes,
    UploadedBy:     actor.ID,
    Tags:           tags,
  }
  if _, cErr := ds.documentRepo.Create(ctx, nil, []*types.Document{document}); cErr != nil {
    // Best effort: don't leave an orphan object behind.
    if rErr := ds.store.Remove(ctx, key); rErr != nil {
      ds.log.Warn("Failed to remove orphaned object", "key", key, "error", rErr)
    }
    return nil, fmt.Errorf("Failed to create document record: %w", cErr)
  }
  return document, nil
}

func (ds *documentService) ListDocuments(ctx context.Context, orgID uuid.UUID) ([]*types.Document, error) {
  if _, err := requireMembership(ctx, nil, ds.membershipRepo, orgID); err != nil {
    return nil, err
  }
  documents, err := ds.documentRepo.ListByOrg(ctx, nil, orgID)
  if err != nil {
    return nil, fmt.Errorf("Failed to list documents: %w", err)
  }
  return documents, nil
}

func (ds *documentService) GetDownloadURL(ctx context.Context, orgID, documentID uuid.UUID) (string, error) {
  if _, err := requireMembership(ctx, nil, ds.membershipRepo, orgID); err != nil {
    return "", err
  }
  if ds.store == nil {
    return "", fmt.Errorf("Document storage is not configured")
  }
  document, err := ds.loadOrgDocument(ctx, orgID, documentID)
  if err != nil {
    return "", err
  }
  url, pErr := ds.store.PresignedGetURL(ctx, document.BucketKey, downloadURLTTL)
  if pErr != nil {
    return "", fmt.Errorf("Failed to presign document URL: %w", pErr)
  }
  return url, nil
}

func (ds *documentService) DeleteDocument(ctx context.Context, orgID, documentID uuid.UUID) error {
  actor, err := requireMembership(ctx, nil, ds.membershipRepo, orgID)
  if err != nil {
    return err
  }
  document, dErr := ds.loadOrgDocument(ctx, orgID, documentID)
  if dErr != nil {
    return dErr
  }
  // Uploader or an officer.
  if document.UploadedBy != actor.ID && types.RoleRank(actor.Role) < types.RoleRank(types.RoleOfficer) {
    return ErrInsufficientRole
  }
  if rErr := ds.documentRepo.Delete(ctx, nil, documentID); rErr != nil {
    return fmt.Errorf("Failed to delete document record: %w", rErr)
  }
  if ds.store != nil {
    if rErr := ds.store.Remove(ctx, document.BucketKey); rErr != nil {
      ds.log.Warn("Failed to remove object", "key", document.BucketKey, "error", rErr)
    }
  }
  return nil
}

func (ds *documentService) loadOrgDocument(ctx context.Context, orgID, documentID uuid.UUID) (*types.Document, error) {
  documents, err := ds.documentRepo.GetByIDs(ctx, nil, []uuid.UUID{documentID})
  if err != nil {
    return nil, fmt.Errorf("Failed to fetch document: %w", err)
  }
  if len(documents) == 0 || documents[0].OrganizationID != orgID {
    return nil, fmt.Errorf("Document not found in this organization")
  }
  return documents[0], nil
}
