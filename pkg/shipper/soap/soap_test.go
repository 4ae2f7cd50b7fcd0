package soap_test

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipbridge/pkg/shipper/soap"
)

type header struct {
	XMLName xml.Name `xml:"ns:RequestContext"`
	Version string   `xml:"ns:Version"`
}

type echoRequest struct {
	XMLName xml.Name `xml:"ns:EchoRequest"`
	Value   string   `xml:"ns:Value"`
}

type echoResponse struct {
	XMLName xml.Name `xml:"EchoResponse"`
	Value   string   `xml:"Value"`
}

func TestRender(t *testing.T) {
	body, err := soap.Render(
		[]soap.Namespace{{Prefix: "ns", URI: "urn:echo"}},
		header{Version: "2.0"},
		echoRequest{Value: "a<b"},
	)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ns="urn:echo"`)
	assert.Contains(t, out, "<soap:Header><ns:RequestContext><ns:Version>2.0</ns:Version></ns:RequestContext></soap:Header>")
	assert.Contains(t, out, "<soap:Body><ns:EchoRequest><ns:Value>a&lt;b</ns:Value></ns:EchoRequest></soap:Body>")
}

func TestRender_NoHeader(t *testing.T) {
	body, err := soap.Render(nil, nil, echoRequest{Value: "x"})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "soap:Header")
}

func TestDecode(t *testing.T) {
	data := []byte(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body><EchoResponse xmlns="urn:echo"><Value>hello</Value></EchoResponse></s:Body>
</s:Envelope>`)

	var out echoResponse
	fault, err := soap.Decode(data, &out)

	require.NoError(t, err)
	assert.Nil(t, fault)
	assert.Equal(t, "hello", out.Value)
}

func TestDecode_Fault(t *testing.T) {
	data := []byte(`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
  <s:Body><s:Fault><faultcode>s:Client</faultcode><faultstring>Invalid credentials</faultstring></s:Fault></s:Body>
</s:Envelope>`)

	var out echoResponse
	fault, err := soap.Decode(data, &out)

	require.NoError(t, err)
	require.NotNil(t, fault)
	assert.Equal(t, "s:Client: Invalid credentials", fault.Error())
	assert.Empty(t, out.Value)
}

func TestDecode_Malformed(t *testing.T) {
	var out echoResponse

	_, err := soap.Decode([]byte("<html>502 Bad Gateway"), &out)
	assert.Error(t, err)

	_, err = soap.Decode([]byte(`<Envelope><Body> </Body></Envelope>`), &out)
	assert.ErrorContains(t, err, "empty body")
}
