package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lokvista_admin/internal/domain"
)

func (s *Store) ListLocations(ctx context.Context, collection string) (out []domain.Location, err error) {
	defer observe("ListLocations", time.Now(), &err)
	cur, err := s.c(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out = []domain.Location{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FirstImageForPlace returns the earliest image linked to placeID.
func (s *Store) FirstImageForPlace(ctx context.Context, placeID string) (string, bool, error) {
	var im domain.Image
	opts := options.FindOne().SetSort(bson.D{{Key: "uploadedAt", Value: 1}})
	err := findOne(ctx, s.c(domain.CollImages), bson.M{"placeId": placeID}, &im, opts)
	if errors.Is(err, domain.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return im.ImageURL, im.ImageURL != "", nil
}

func (s *Store) ListSubmissions(ctx context.Context) (out []domain.Submission, err error) {
	defer observe("ListSubmissions", time.Now(), &err)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c(domain.CollSubmissions).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out = []domain.Submission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetSubmission(ctx context.Context, id string) (sub domain.Submission, err error) {
	defer observe("GetSubmission", time.Now(), &err)
	err = findOne(ctx, s.c(domain.CollSubmissions), idFilter(id), &sub)
	return sub, err
}

func (s *Store) ListSubmissionImages(ctx context.Context, submissionID string) ([]domain.SubmissionImage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c(domain.CollSubmissionImages).Find(ctx, bson.M{"submissionId": submissionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.SubmissionImage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListStuckApprovals finds verified submissions whose approval has not reached
// the notified stage.
func (s *Store) ListStuckApprovals(ctx context.Context, limit int) ([]domain.Submission, error) {
	var stages bson.A
	for _, st := range domain.StagesBefore(domain.StageNotified) {
		if st != domain.StageNone {
			stages = append(stages, string(st))
		}
	}
	filter := bson.M{
		"verified":      true,
		"rejected":      bson.M{"$ne": true},
		"approvalStage": bson.M{"$in": stages},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.c(domain.CollSubmissions).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Submission
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	return s.c(collection).CountDocuments(ctx, bson.M{})
}

func (s *Store) CountPendingSubmissions(ctx context.Context) (int64, error) {
	return s.c(domain.CollSubmissions).CountDocuments(ctx, bson.M{
		"verified": bson.M{"$ne": true},
		"rejected": bson.M{"$ne": true},
	})
}

// updateWhere applies set to the submission matched by filter and reports
// whether anything matched.
func (s *Store) updateWhere(ctx context.Context, op string, filter, set bson.M) (matched bool, err error) {
	defer observe(op, time.Now(), &err)
	res, err := s.c(domain.CollSubmissions).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// stageBefore matches submission id while its approvalStage is earlier than
// stage, plus any extra conditions.
func stageBefore(id string, stage domain.ApprovalStage, extra ...bson.M) bson.M {
	later := bson.A{}
	for _, st := range domain.StagesFrom(stage) {
		later = append(later, string(st))
	}
	and := bson.A{idFilter(id), bson.M{"approvalStage": bson.M{"$nin": later}}}
	for _, e := range extra {
		and = append(and, e)
	}
	return bson.M{"$and": and}
}

// MarkVerified starts an approval. It is a no-op once the submission is past
// the verified stage and refuses rejected submissions.
func (s *Store) MarkVerified(ctx context.Context, id, attempt string) error {
	now := time.Now().UTC()
	ok, err := s.updateWhere(ctx, "MarkVerified",
		stageBefore(id, domain.StageVerified, bson.M{"rejected": bson.M{"$ne": true}}),
		bson.M{
			"verified":          true,
			"approvalStage":     string(domain.StageVerified),
			"approvalAttempt":   attempt,
			"approvalUpdatedAt": now,
			"reviewedAt":        now,
		})
	if err != nil || ok {
		return err
	}
	var cur domain.Submission
	if err := findOne(ctx, s.c(domain.CollSubmissions), idFilter(id), &cur); err != nil {
		return err
	}
	if cur.Rejected {
		return domain.ErrAlreadyReviewed
	}
	return nil
}

// LinkTarget stores targetID as placeLinked only if no link exists yet and
// returns whichever id ends up stored.
func (s *Store) LinkTarget(ctx context.Context, id, collection, targetID string) (string, error) {
	filter := bson.M{"$and": bson.A{idFilter(id), bson.M{"placeLinked": bson.M{"$in": bson.A{nil, ""}}}}}
	ok, err := s.updateWhere(ctx, "LinkTarget", filter, bson.M{
		"placeLinked":       targetID,
		"targetCollection":  collection,
		"approvalStage":     string(domain.StageLinked),
		"approvalUpdatedAt": time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	if ok {
		return targetID, nil
	}
	var cur domain.Submission
	if err := findOne(ctx, s.c(domain.CollSubmissions), idFilter(id), &cur); err != nil {
		return "", err
	}
	return cur.PlaceLinked, nil
}

// SetApprovalStage advances the stage; an earlier stage is ignored.
func (s *Store) SetApprovalStage(ctx context.Context, id string, stage domain.ApprovalStage) error {
	ok, err := s.updateWhere(ctx, "SetApprovalStage", stageBefore(id, stage), bson.M{
		"approvalStage":     string(stage),
		"approvalUpdatedAt": time.Now().UTC(),
	})
	if err != nil || ok {
		return err
	}
	return s.notFoundOr(ctx, domain.CollSubmissions, id, nil)
}

// UpsertTarget writes record under targetID, replacing any earlier copy.
func (s *Store) UpsertTarget(ctx context.Context, collection, targetID string, record any) (err error) {
	defer observe("UpsertTarget", time.Now(), &err)
	_, err = s.c(collection).ReplaceOne(ctx, bson.M{"_id": targetID}, record, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) UpsertImage(ctx context.Context, img domain.Image) (err error) {
	defer observe("UpsertImage", time.Now(), &err)
	_, err = s.c(domain.CollImages).ReplaceOne(ctx, bson.M{"_id": img.ID}, img, options.Replace().SetUpsert(true))
	return err
}

// MarkRejected only applies to submissions that were never verified or
// rejected before.
func (s *Store) MarkRejected(ctx context.Context, id, reason string, at time.Time) (err error) {
	defer observe("MarkRejected", time.Now(), &err)
	filter := bson.M{"$and": bson.A{
		idFilter(id),
		bson.M{"verified": bson.M{"$ne": true}},
		bson.M{"rejected": bson.M{"$ne": true}},
	}}
	res, err := s.c(domain.CollSubmissions).UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"rejected":        true,
		"rejectionReason": reason,
		"reviewedAt":      at,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return s.notFoundOr(ctx, domain.CollSubmissions, id, domain.ErrAlreadyReviewed)
	}
	return nil
}

// DeleteSubmission removes the submission and its staged images. Global
// images copied at approval keep their own documents.
func (s *Store) DeleteSubmission(ctx context.Context, id string) (err error) {
	defer observe("DeleteSubmission", time.Now(), &err)
	res, err := s.c(domain.CollSubmissions).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	if _, err := s.c(domain.CollSubmissionImages).DeleteMany(ctx, bson.M{"submissionId": id}); err != nil {
		return fmt.Errorf("delete staged images: %w", err)
	}
	return nil
}
