package rooms

import "context"

type Repository interface {
	Create(ctx context.Context, rm Room) error
	Update(ctx context.Context, rm Room) error
	GetByID(ctx context.Context, id string) (Room, error)
	GetByNumber(ctx context.Context, number string) (Room, error)
	List(ctx context.Context) ([]Room, error)
	ListByType(ctx context.Context, t RoomType) ([]Room, error)
	CountByStatus(ctx context.Context) (map[RoomStatus]int, error)
}
