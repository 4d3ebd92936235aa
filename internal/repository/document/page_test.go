package document

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseExcept(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"phone1", []string{"phone1"}},
		{"phone1|phone2", []string{"phone1", "phone2"}},
		{"phone1,phone2", []string{"phone1", "phone2"}},
		{"phone1, phone2|description", []string{"phone1", "phone2", "description"}},
		{"||,", nil},
	}

	for _, tt := range tests {
		got := ParseExcept(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseExcept(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestBuildPageFilter_NoCursor(t *testing.T) {
	filter := BuildPageFilter(PageRequest{}, nil, primitive.NilObjectID, nil)
	if len(filter) != 0 {
		t.Fatalf("expected match-all filter, got %v", filter)
	}

	cond := Condition{"grade": 3}
	filter = BuildPageFilter(PageRequest{}, []Condition{cond}, primitive.NilObjectID, nil)
	and, ok := filter["$and"].([]bson.M)
	if !ok || len(and) != 1 {
		t.Fatalf("expected single-condition conjunction, got %v", filter)
	}
	if !reflect.DeepEqual(and[0], bson.M(cond)) {
		t.Errorf("condition not preserved: %v", and[0])
	}
}

func TestBuildPageFilter_CursorWithoutSortBy(t *testing.T) {
	lastID := makeObjectID(7)
	req := PageRequest{LastID: lastID.Hex(), Ascend: 1}

	filter := BuildPageFilter(req, nil, lastID, nil)
	and := filter["$and"].([]bson.M)
	or := and[0]["$or"].([]bson.M)
	if len(or) != 1 {
		t.Fatalf("expected identifier-only cursor predicate, got %v", or)
	}
	want := bson.M{"_id": bson.M{"$gt": lastID}}
	if !reflect.DeepEqual(or[0], want) {
		t.Errorf("cursor predicate = %v, want %v", or[0], want)
	}
}

func TestBuildPageFilter_CursorWithSortBy(t *testing.T) {
	lastID := makeObjectID(9)
	req := PageRequest{LastID: lastID.Hex(), SortBy: "grade", Ascend: 1}

	filter := BuildPageFilter(req, []Condition{{"retire": false}}, lastID, 5)
	and := filter["$and"].([]bson.M)
	if len(and) != 2 {
		t.Fatalf("expected cursor predicate plus one condition, got %v", and)
	}

	or := and[0]["$or"].([]bson.M)
	if len(or) != 2 {
		t.Fatalf("expected two-branch disjunction, got %v", or)
	}
	// Branch A: sort field advanced.
	if !reflect.DeepEqual(or[0], bson.M{"grade": bson.M{"$gt": 5}}) {
		t.Errorf("branch A = %v", or[0])
	}
	// Branch B: sort field tied, identifier advanced.
	if !reflect.DeepEqual(or[1], bson.M{"grade": 5, "_id": bson.M{"$gt": lastID}}) {
		t.Errorf("branch B = %v", or[1])
	}
	if !reflect.DeepEqual(and[1], bson.M{"retire": false}) {
		t.Errorf("condition = %v", and[1])
	}
}

func TestBuildPageFilter_Descending(t *testing.T) {
	lastID := makeObjectID(3)
	req := PageRequest{LastID: lastID.Hex(), SortBy: "name", Ascend: -1}

	filter := BuildPageFilter(req, nil, lastID, "kim")
	or := filter["$and"].([]bson.M)[0]["$or"].([]bson.M)
	if !reflect.DeepEqual(or[0], bson.M{"name": bson.M{"$lt": "kim"}}) {
		t.Errorf("descending branch A = %v", or[0])
	}
	if !reflect.DeepEqual(or[1], bson.M{"name": "kim", "_id": bson.M{"$lt": lastID}}) {
		t.Errorf("descending branch B = %v", or[1])
	}
}

func TestBuildPageFilter_NilSortValueDegradesToIDOnly(t *testing.T) {
	lastID := makeObjectID(4)
	req := PageRequest{LastID: lastID.Hex(), SortBy: "grade", Ascend: 1}

	filter := BuildPageFilter(req, nil, lastID, nil)
	or := filter["$and"].([]bson.M)[0]["$or"].([]bson.M)
	if len(or) != 1 {
		t.Fatalf("expected identifier-only degradation, got %v", or)
	}
	if !reflect.DeepEqual(or[0], bson.M{"_id": bson.M{"$gt": lastID}}) {
		t.Errorf("degraded predicate = %v", or[0])
	}
}

func TestBuildPageSort(t *testing.T) {
	tests := []struct {
		name string
		req  PageRequest
		want bson.D
	}{
		{
			name: "default ascending by id",
			req:  PageRequest{},
			want: bson.D{{Key: "_id", Value: 1}},
		},
		{
			name: "sort field then id",
			req:  PageRequest{SortBy: "grade", Ascend: 1},
			want: bson.D{{Key: "grade", Value: 1}, {Key: "_id", Value: 1}},
		},
		{
			name: "descending both",
			req:  PageRequest{SortBy: "name", Ascend: -1},
			want: bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPageSort(tt.req)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildPageSort() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildProjection(t *testing.T) {
	got := BuildProjection([]string{"phone1", "_id", "id"}, []string{"password"})
	want := bson.M{"phone1": 0, "password": 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildProjection() = %v, want %v", got, want)
	}
}

func TestFormatDocument(t *testing.T) {
	id := makeObjectID(12)
	doc := bson.M{"_id": id, "name": "kim", "grade": 2}

	got := FormatDocument(doc)
	if got["id"] != id.Hex() {
		t.Errorf("id = %v, want %s", got["id"], id.Hex())
	}
	if _, exists := got["_id"]; exists {
		t.Error("_id must not leak into the formatted document")
	}
	if got["name"] != "kim" || got["grade"] != 2 {
		t.Errorf("fields not passed through: %v", got)
	}
}
