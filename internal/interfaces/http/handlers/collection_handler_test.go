package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
	"nft-launchpad.backend/internal/usecases"
)

const handlerCollection = "0x00000000000000000000000000000000000abc01"

type collectionServiceStub struct {
	items      []*entities.CollectionSummary
	lastFilter entities.CollectionFilter
	lastScan   usecases.ScanInput
	refreshed  bool
	scan       *entities.ScanResult
	err        error
}

func (s *collectionServiceStub) ListCollections(_ context.Context, f entities.CollectionFilter) ([]*entities.CollectionSummary, int64, error) {
	s.lastFilter = f
	return s.items, int64(len(s.items)), s.err
}

func (s *collectionServiceStub) GetSummary(_ context.Context, address string, refresh bool) (*entities.CollectionSummary, error) {
	s.refreshed = refresh
	if s.err != nil {
		return nil, s.err
	}
	return &entities.CollectionSummary{Address: address, Name: "Stub"}, nil
}

func (s *collectionServiceStub) Preview(_ context.Context, address string, count int) ([]entities.PreviewItem, *entities.CollectionSummary, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	items := make([]entities.PreviewItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, entities.PreviewItem{TokenID: fmt.Sprint(i), Name: fmt.Sprintf("Stub #%d", i)})
	}
	return items, &entities.CollectionSummary{Address: address}, nil
}

func (s *collectionServiceStub) ScanCollection(_ context.Context, in usecases.ScanInput) (*entities.ScanResult, error) {
	s.lastScan = in
	return s.scan, s.err
}

func (s *collectionServiceStub) GetNFT(_ context.Context, address, tokenID string) (*entities.NFTRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.NFTRecord{CollectionAddress: address, TokenID: tokenID}, nil
}

func newCollectionRouter(stub *collectionServiceStub) *gin.Engine {
	h := NewCollectionHandler(stub)
	r := newTestRouter()
	r.GET("/collections", h.ListCollections)
	r.GET("/collections/:address", h.GetCollection)
	r.GET("/collections/:address/preview", h.Preview)
	r.GET("/nfts/collection/:address", h.ScanCollection)
	r.GET("/nfts/:address/:tokenId", h.GetNFT)
	return r
}

func TestCollectionHandler_List(t *testing.T) {
	stub := &collectionServiceStub{items: []*entities.CollectionSummary{{Address: handlerCollection, Verified: true}}}
	r := newTestRouter()
	h := NewCollectionHandler(stub)
	r.GET("/collections", h.ListCollections)

	w := doRequest(r, http.MethodGet, "/collections?verified=true&page=2&limit=5", nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	require.NotNil(t, stub.lastFilter.Verified)
	assert.True(t, *stub.lastFilter.Verified)
	assert.Equal(t, 5, stub.lastFilter.Limit)
	assert.Equal(t, 5, stub.lastFilter.Offset)

	w = doRequest(r, http.MethodGet, "/collections?verified=maybe", nil)
	requireStatus(t, w, http.StatusBadRequest)

	stub.items = nil
	w = doRequest(r, http.MethodGet, "/collections", nil)
	assert.JSONEq(t, `[]`, mustJSON(t, decodeBody(t, w)["data"]))
}

func TestCollectionHandler_GetAndPreview(t *testing.T) {
	stub := &collectionServiceStub{}
	r := newCollectionRouter(stub)

	w := doRequest(r, http.MethodGet, "/collections/"+handlerCollection+"?refresh=true", nil)
	requireStatus(t, w, http.StatusOK)
	assert.True(t, stub.refreshed)

	w = doRequest(r, http.MethodGet, "/collections/"+handlerCollection+"/preview?count=3", nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["count"])
	assert.NotNil(t, body["collection"])

	w = doRequest(r, http.MethodGet, "/collections/"+handlerCollection+"/preview?count=-1", nil)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestCollectionHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domainerrors.ErrCollectionNotIntrospectable, http.StatusOK},
		{fmt.Errorf("%w: invalid collection address", domainerrors.ErrInvalidInput), http.StatusBadRequest},
		{domainerrors.ErrNotFound, http.StatusNotFound},
		{domainerrors.ErrChainUnavailable, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := newCollectionRouter(&collectionServiceStub{err: tc.err})
		w := doRequest(r, http.MethodGet, "/collections/"+handlerCollection, nil)
		requireStatus(t, w, tc.status)
		assert.Equal(t, false, decodeBody(t, w)["success"])
	}
}

func TestCollectionHandler_ScanCollection(t *testing.T) {
	stub := &collectionServiceStub{scan: &entities.ScanResult{
		Collection:     &entities.CollectionSummary{Address: handlerCollection},
		NFTs:           []*entities.NFTRecord{{TokenID: "0"}, {TokenID: "1"}},
		Scanned:        4,
		Introspectable: true,
	}}
	r := newCollectionRouter(stub)

	w := doRequest(r, http.MethodGet, "/nfts/collection/"+handlerCollection+"?limit=2&window=ascending&persist=true", nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(4), body["scanned"])
	assert.Equal(t, 2, stub.lastScan.Limit)
	assert.Equal(t, entities.WindowAscending, stub.lastScan.Window)
	assert.True(t, stub.lastScan.Persist)

	for _, q := range []string{"?limit=abc", "?window=sideways", "?persist=perhaps"} {
		w = doRequest(r, http.MethodGet, "/nfts/collection/"+handlerCollection+q, nil)
		requireStatus(t, w, http.StatusBadRequest)
	}
}

func TestCollectionHandler_ScanNotIntrospectable(t *testing.T) {
	stub := &collectionServiceStub{scan: &entities.ScanResult{NFTs: []*entities.NFTRecord{}, Message: usecases.NotIntrospectableMessage}}
	r := newCollectionRouter(stub)

	w := doRequest(r, http.MethodGet, "/nfts/collection/"+handlerCollection, nil)
	requireStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"success":false,"error":"collection not introspectable","data":[]}`, w.Body.String())
}

func TestCollectionHandler_EmptyScanIsSuccess(t *testing.T) {
	stub := &collectionServiceStub{scan: &entities.ScanResult{Introspectable: true}}
	r := newCollectionRouter(stub)

	w := doRequest(r, http.MethodGet, "/nfts/collection/"+handlerCollection, nil)
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []interface{}{}, body["nfts"])
}

func TestCollectionHandler_GetNFT(t *testing.T) {
	r := newCollectionRouter(&collectionServiceStub{})
	w := doRequest(r, http.MethodGet, "/nfts/"+handlerCollection+"/7", nil)
	requireStatus(t, w, http.StatusOK)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "7", data["tokenId"])
}
