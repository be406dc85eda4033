package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type Hotel struct {
	ID              string           `bson:"_id,omitempty" json:"id"`
	BasicInfo       HotelBasicInfo   `bson:"basicInfo" json:"basicInfo"`
	OwnerInfo       HotelOwnerInfo   `bson:"ownerInfo" json:"ownerInfo"`
	Documents       HotelDocuments   `bson:"documents" json:"documents"`
	BankDetails     HotelBankDetails `bson:"bankDetails" json:"bankDetails"`
	Photos          HotelPhotos      `bson:"photos" json:"photos"`
	Status          HotelStatus      `bson:"status" json:"status"`
	RejectionReason string           `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	ReviewedAt      *time.Time       `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
}

type HotelBasicInfo struct {
	Name         string `bson:"name" json:"name"`
	Address      string `bson:"address" json:"address"`
	City         string `bson:"city" json:"city"`
	ContactEmail string `bson:"contactEmail" json:"contactEmail"`
	Type         string `bson:"type" json:"type"`
}

type HotelOwnerInfo struct {
	Name       string `bson:"name" json:"name"`
	Contact    string `bson:"contact" json:"contact"`
	Email      string `bson:"email" json:"email"`
	IDProofURL string `bson:"idProofUrl" json:"idProofUrl"`
}

type HotelDocuments struct {
	LicenseURL    string `bson:"licenseUrl" json:"licenseUrl"`
	SafetyCertURL string `bson:"safetyCertUrl" json:"safetyCertUrl"`
}

type HotelBankDetails struct {
	AccountName string `bson:"accountName" json:"accountName"`
	AccountNo   string `bson:"accountNo" json:"accountNo"`
	IFSC        string `bson:"ifsc" json:"ifsc"`
}

type HotelPhotos struct {
	Exterior []string `bson:"exterior" json:"exterior"`
	Dining   []string `bson:"dining" json:"dining"`
	Rooms    []string `bson:"rooms" json:"rooms"`
}

// HotelStatus is the verification state of a hotel.
//
// The store keeps the legacy encoding: false (pending), true (approved) and
// the string "rejected". Consumers checking status == true keep working.
type HotelStatus int

const (
	HotelPending HotelStatus = iota
	HotelApproved
	HotelRejected
)

const rejectedLiteral = "rejected"

func (s HotelStatus) String() string {
	switch s {
	case HotelApproved:
		return "approved"
	case HotelRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// ParseHotelStatus accepts pending|approved|rejected.
func ParseHotelStatus(v string) (HotelStatus, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "pending":
		return HotelPending, nil
	case "approved", "verified":
		return HotelApproved, nil
	case "rejected":
		return HotelRejected, nil
	}
	return HotelPending, fmt.Errorf("%w: unknown hotel status %q", ErrInvalidInput, v)
}

// StoredValue is the value persisted in the status field.
func (s HotelStatus) StoredValue() any {
	switch s {
	case HotelApproved:
		return true
	case HotelRejected:
		return rejectedLiteral
	default:
		return false
	}
}

func (s HotelStatus) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(s.StoredValue())
}

func (s *HotelStatus) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Boolean:
		if rv.Boolean() {
			*s = HotelApproved
		} else {
			*s = HotelPending
		}
	case bsontype.String:
		if strings.EqualFold(rv.StringValue(), rejectedLiteral) {
			*s = HotelRejected
		} else {
			*s = HotelPending
		}
	case bsontype.Null, bsontype.Undefined:
		*s = HotelPending
	default:
		return fmt.Errorf("hotel status: unexpected bson type %s", t)
	}
	return nil
}

func (s HotelStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *HotelStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, err := ParseHotelStatus(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
