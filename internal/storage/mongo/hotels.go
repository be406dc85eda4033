package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"lokvista_admin/internal/domain"
)

// statusFilter matches the stored encoding of st. Documents without a status
// field count as pending.
func statusFilter(st domain.HotelStatus) bson.M {
	if st == domain.HotelPending {
		return bson.M{"$or": bson.A{
			bson.M{"status": false},
			bson.M{"status": bson.M{"$exists": false}},
			bson.M{"status": nil},
		}}
	}
	return bson.M{"status": st.StoredValue()}
}

func (s *Store) ListHotels(ctx context.Context, status domain.HotelStatus) (out []domain.Hotel, err error) {
	defer observe("ListHotels", time.Now(), &err)
	cur, err := s.c(domain.CollHotels).Find(ctx, statusFilter(status))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out = []domain.Hotel{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetHotel(ctx context.Context, id string) (h domain.Hotel, err error) {
	defer observe("GetHotel", time.Now(), &err)
	err = findOne(ctx, s.c(domain.CollHotels), idFilter(id), &h)
	return h, err
}

// SetHotelStatus moves a pending hotel to status. Setting the status a hotel
// already has is a no-op success; any other transition is a conflict.
func (s *Store) SetHotelStatus(ctx context.Context, id string, status domain.HotelStatus, reason string, at time.Time) (err error) {
	defer observe("SetHotelStatus", time.Now(), &err)
	filter := bson.M{"$and": bson.A{
		idFilter(id),
		bson.M{"$or": bson.A{statusFilter(domain.HotelPending), statusFilter(status)}},
	}}
	set := bson.M{"status": status, "reviewedAt": at}
	update := bson.M{"$set": set}
	if reason != "" {
		set["rejectionReason"] = reason
	} else {
		update["$unset"] = bson.M{"rejectionReason": ""}
	}

	res, err := s.c(domain.CollHotels).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.notFoundOr(ctx, domain.CollHotels, id, domain.ErrAlreadyReviewed)
	}
	return nil
}

func (s *Store) CountHotels(ctx context.Context, status domain.HotelStatus) (int64, error) {
	return s.c(domain.CollHotels).CountDocuments(ctx, statusFilter(status))
}
