package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DedS3t/cashflow-backend/app/models"
	"github.com/go-pg/pg/v10"
)

type roomRecord struct {
	tableName struct{} `pg:"rooms"`

	Id        string `pg:",pk"`
	Name      string
	Status    string
	CreatedAt time.Time `pg:"default:now()"`
}

type transactionRecord struct {
	tableName struct{} `pg:"transactions"`

	Id             string `pg:",pk"`
	RoomId         string `pg:",notnull"`
	SenderIndex    int    `pg:",use_zero"`
	RecipientIndex int    `pg:",use_zero"`
	SenderId       string
	RecipientId    string
	Amount         int64 `pg:",use_zero"`
	Description    string
	Timestamp      time.Time
}

// Repository stores room records and archives committed transactions in
// PostgreSQL.
type Repository struct {
	db *pg.DB
}

func NewRepository(db *pg.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateRoom(ctx context.Context, room *models.Room) error {
	rec := &roomRecord{Id: room.Id, Name: room.Name, Status: room.Status, CreatedAt: room.CreatedAt}
	if _, err := r.db.ModelContext(ctx, rec).Insert(); err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	rec := &roomRecord{Id: id}
	err := r.db.ModelContext(ctx, rec).WherePK().Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, models.NotFound("room %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("select room: %w", err)
	}
	return &models.Room{Id: rec.Id, Name: rec.Name, Status: rec.Status, CreatedAt: rec.CreatedAt}, nil
}

func (r *Repository) SetRoomStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ModelContext(ctx, &roomRecord{Id: id}).WherePK().Set("status = ?", status).Update()
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if res.RowsAffected() == 0 {
		return models.NotFound("room %s not found", id)
	}
	return nil
}

func (r *Repository) AppendTransactions(ctx context.Context, roomID string, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	recs := make([]transactionRecord, len(txs))
	for i, tx := range txs {
		recs[i] = transactionRecord{
			Id:             tx.ID,
			RoomId:         roomID,
			SenderIndex:    tx.SenderIndex,
			RecipientIndex: tx.RecipientIndex,
			SenderId:       tx.SenderID,
			RecipientId:    tx.RecipientID,
			Amount:         tx.Amount,
			Description:    tx.Description,
			Timestamp:      tx.Timestamp,
		}
	}
	if _, err := r.db.ModelContext(ctx, &recs).Insert(); err != nil {
		return fmt.Errorf("archive transactions: %w", err)
	}
	return nil
}

// ListRooms returns the rooms with the given status, newest first.
func (r *Repository) ListRooms(ctx context.Context, status string) ([]models.Room, error) {
	var recs []roomRecord
	err := r.db.ModelContext(ctx, &recs).Where("status = ?", status).Order("created_at DESC").Select()
	if err != nil {
		return nil, fmt.Errorf("select rooms: %w", err)
	}
	rooms := make([]models.Room, len(recs))
	for i, rec := range recs {
		rooms[i] = models.Room{Id: rec.Id, Name: rec.Name, Status: rec.Status, CreatedAt: rec.CreatedAt}
	}
	return rooms, nil
}
