package ups_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codeninja55/go-radx/dicom"
	"github.com/codeninja55/go-radx/dicom/element"
	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/codeninja55/go-radx/dicom/value"
	"github.com/codeninja55/go-radx/dicom/vr"
	"github.com/codeninja55/go-radx/ups"
	"github.com/stretchr/testify/require"
)

func newTestServer() (*httptest.Server, *ups.InMemoryStore) {
	subs := ups.NewSubscriptionStore()
	store := ups.NewInMemoryStore(nil)
	srv := ups.NewServer(store, subs, nil)
	return httptest.NewServer(srv.Handler()), store
}

func TestHTTPServer_CreateAndGetWorkitem(t *testing.T) {
	ts, _ := newTestServer()
	defer ts.Close()

	client := ups.NewClient(ups.ClientConfig{BaseURL: ts.URL})

	ds := dicom.NewDataSet()
	priorityVal, err := value.NewStringValue(vr.CodeString, []string{"HIGH"})
	require.NoError(t, err)
	priorityElem, err := element.NewElement(tag.New(0x0074, 0x1200), vr.CodeString, priorityVal)
	require.NoError(t, err)
	require.NoError(t, ds.Add(priorityElem))

	location, err := client.Create(context.Background(), "1.2.840.99.1", ds)
	require.NoError(t, err)
	require.Contains(t, location, "1.2.840.99.1")

	got, err := client.Get(context.Background(), "1.2.840.99.1")
	require.NoError(t, err)
	elem, err := got.Get(tag.New(0x0074, 0x1200))
	require.NoError(t, err)
	sv := elem.Value().(*value.StringValue)
	require.Equal(t, []string{"HIGH"}, sv.Strings())
}

func TestHTTPServer_GetMissingReturns404(t *testing.T) {
	ts, _ := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/workitems/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPServer_ChangeStateRequiresTransactionUID(t *testing.T) {
	ts, store := newTestServer()
	defer ts.Close()

	w := ups.NewWorkitem("1.2.840.99.2", ups.PriorityLow, nil)
	require.NoError(t, store.Create(context.Background(), w))

	client := ups.NewClient(ups.ClientConfig{BaseURL: ts.URL})
	err := client.ChangeState(context.Background(), w.UID, ups.StateInProgress, "")
	require.Error(t, err)

	err = client.ChangeState(context.Background(), w.UID, ups.StateInProgress, "1.2.3.4")
	require.NoError(t, err)
}

func TestHTTPServer_SubscribeAndUnsubscribe(t *testing.T) {
	ts, _ := newTestServer()
	defer ts.Close()

	client := ups.NewClient(ups.ClientConfig{BaseURL: ts.URL})
	require.NoError(t, client.Subscribe(context.Background(), "1.2.840.99.3", "STATION1", true))
	require.NoError(t, client.Unsubscribe(context.Background(), "1.2.840.99.3", "STATION1"))
}
