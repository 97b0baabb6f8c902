package tourapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"tour-admin/feature/tour/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const listArray = `{"response":{"header":{"resultCode":"0000","resultMsg":"OK"},"body":{"items":{"item":[
{"contentid":"126508","contenttypeid":"12","title":"경복궁","addr1":"서울특별시 종로구 사직로 161","mapx":"126.9769930325","mapy":"37.5788222356","areacode":"1","modifiedtime":"20240102103000"},
{"contentid":126509,"contenttypeid":12,"title":"창덕궁","mapx":126.99,"mapy":37.57}
]},"numOfRows":100,"pageNo":1,"totalCount":2}}}`

const listSingle = `{"response":{"header":{"resultCode":"0000","resultMsg":"OK"},"body":{"items":{"item":
{"contentid":"2786391","contenttypeid":"15","title":"서울 빛초롱 축제","eventstartdate":"20241213","eventenddate":"20250101"}
},"numOfRows":100,"pageNo":1,"totalCount":1}}}`

const listEmpty = `{"response":{"header":{"resultCode":"0000","resultMsg":"OK"},"body":{"items":"","numOfRows":100,"pageNo":3,"totalCount":200}}}`

const keyError = `<OpenAPI_ServiceResponse>
	<cmmMsgHeader>
		<errMsg>SERVICE ERROR</errMsg>
		<returnAuthMsg>SERVICE_KEY_IS_NOT_REGISTERED_ERROR</returnAuthMsg>
		<returnReasonCode>30</returnReasonCode>
	</cmmMsgHeader>
</OpenAPI_ServiceResponse>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		ServiceKey: "test-key",
		BaseURL:    srv.URL,
		MobileOS:   "ETC",
		MobileApp:  "tour-admin",
		RetryCount: 0,
	}, zap.NewNop())
}

func TestList_ArrayItems(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		q := r.URL.Query()
		gotQuery = map[string]string{
			"serviceKey":    q.Get("serviceKey"),
			"contentTypeId": q.Get("contentTypeId"),
			"pageNo":        q.Get("pageNo"),
			"numOfRows":     q.Get("numOfRows"),
			"_type":         q.Get("_type"),
		}
		_, _ = w.Write([]byte(listArray))
	})

	spot, _ := models.LookupCategory("spot")
	page, err := client.List(context.Background(), spot, 1, 100)
	require.NoError(t, err)

	assert.Equal(t, "/KorService1/areaBasedList1", gotPath)
	assert.Equal(t, map[string]string{
		"serviceKey":    "test-key",
		"contentTypeId": "12",
		"pageNo":        "1",
		"numOfRows":     "100",
		"_type":         "json",
	}, gotQuery)

	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "126508", page.Items[0].ContentID)
	assert.Equal(t, 12, page.Items[0].ContentTypeID)
	assert.Equal(t, "경복궁", page.Items[0].Title)
	assert.InDelta(t, 126.9769930325, page.Items[0].MapX, 1e-9)
	assert.Equal(t, "126509", page.Items[1].ContentID)
	assert.Equal(t, 12, page.Items[1].ContentTypeID)
}

func TestList_AreaFilter(t *testing.T) {
	var got []url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.Query())
		_, _ = w.Write([]byte(listEmpty))
	})

	spot, _ := models.LookupCategory("spot")
	_, err := client.List(context.Background(), spot, 1, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Has("areaCode"))
	assert.False(t, got[0].Has("sigunguCode"))

	client.cfg.AreaCode = "3"
	client.cfg.SigunguCode = "4"
	event, _ := models.LookupCategory("event")
	_, err = client.List(context.Background(), event, 1, 100)
	require.NoError(t, err)
	_, err = client.ListEnglish(context.Background(), spot, 1, 100)
	require.NoError(t, err)

	require.Len(t, got, 3)
	for _, q := range got[1:] {
		assert.Equal(t, "3", q.Get("areaCode"))
		assert.Equal(t, "4", q.Get("sigunguCode"))
	}
}

func TestList_SingleObjectItem(t *testing.T) {
	var gotPath, gotStart string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStart = r.URL.Query().Get("eventStartDate")
		_, _ = w.Write([]byte(listSingle))
	})
	client.cfg.EventStartDate = "20240101"

	event, _ := models.LookupCategory("event")
	page, err := client.List(context.Background(), event, 1, 100)
	require.NoError(t, err)

	assert.Equal(t, "/KorService1/searchFestival1", gotPath)
	assert.Equal(t, "20240101", gotStart)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "20241213", page.Items[0].EventStartDate)
	assert.Equal(t, "20250101", page.Items[0].EventEndDate)
}

func TestList_EmptyItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listEmpty))
	})

	spot, _ := models.LookupCategory("spot")
	page, err := client.List(context.Background(), spot, 3, 100)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 200, page.TotalCount)
}

func TestListEnglish_UsesEnglishTypeID(t *testing.T) {
	var gotPath, gotType string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.URL.Query().Get("contentTypeId")
		_, _ = w.Write([]byte(listEmpty))
	})

	cultural, _ := models.LookupCategory("cultural")
	_, err := client.ListEnglish(context.Background(), cultural, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, "/EngService1/areaBasedList1", gotPath)
	assert.Equal(t, "78", gotType)
}

func TestCall_XMLKeyError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(keyError))
	})

	spot, _ := models.LookupCategory("spot")
	_, err := client.List(context.Background(), spot, 1, 100)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "30", apiErr.Code)
	assert.Equal(t, "SERVICE_KEY_IS_NOT_REGISTERED_ERROR", apiErr.Message)
}

func TestCall_ResultCodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"header":{"resultCode":"10","resultMsg":"INVALID_REQUEST_PARAMETER_ERROR"}}}`))
	})

	_, err := client.DetailCommon(context.Background(), "1", 12)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "10", apiErr.Code)
}

func TestCall_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	spot, _ := models.LookupCategory("spot")
	_, err := client.List(context.Background(), spot, 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KorService1/areaBasedList1")
}

func TestCall_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	spot, _ := models.LookupCategory("spot")
	for i := 0; i < 5; i++ {
		_, err := client.List(context.Background(), spot, 1, 100)
		require.Error(t, err)
	}
	assert.Equal(t, int32(5), hits.Load())

	_, err := client.List(context.Background(), spot, 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Equal(t, int32(5), hits.Load())
}

func TestDetailCommon(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "Y", r.URL.Query().Get("overviewYN"))
		assert.Equal(t, "126508", r.URL.Query().Get("contentId"))
		_, _ = w.Write([]byte(`{"response":{"header":{"resultCode":"0000"},"body":{"items":{"item":[
			{"contentid":"126508","title":"경복궁","overview":"조선 왕조의 법궁","homepage":"<a href=\"https://royal.khs.go.kr\">royal.khs.go.kr</a>"}
		]},"totalCount":1}}}`))
	})

	common, err := client.DetailCommon(context.Background(), "126508", 12)
	require.NoError(t, err)
	assert.Equal(t, "/KorService1/detailCommon1", gotPath)
	assert.Equal(t, "조선 왕조의 법궁", common.Overview)
	assert.Contains(t, common.Homepage, "royal.khs.go.kr")
}

func TestDetail_NoItem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listEmpty))
	})

	_, err := client.DetailIntro(context.Background(), "1", 12)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetailRooms(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/KorService1/detailInfo1", r.URL.Path)
		_, _ = w.Write([]byte(`{"response":{"header":{"resultCode":"0000"},"body":{"items":{"item":[
			{"roomtitle":"스탠다드","roomcount":"10"},{"roomtitle":"디럭스","roomcount":"4"}
		]},"totalCount":2}}}`))
	})

	rooms, err := client.DetailRooms(context.Background(), "142785", 32)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "디럭스", rooms[1]["roomtitle"])
}

func TestDecodeItems_Shapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"missing item", `{}`, 0},
		{"object", `{"item":{"contentid":"1"}}`, 1},
		{"array", `{"item":[{"contentid":"1"},{"contentid":"2"}]}`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeItems([]byte(tt.raw))
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}
