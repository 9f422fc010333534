package axl

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/valyala/fasttemplate"
)

const (
	soapNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	axlNamespace  = "http://www.cisco.com/AXL/API/"
)

// BodyKind selects how the SOAP request body is produced.
type BodyKind string

const (
	// BodyRaw fills a fixed string template.
	BodyRaw BodyKind = "raw"
	// BodyXML marshals the envelope with encoding/xml.
	BodyXML BodyKind = "xml"
)

// Builder wraps an SQL statement into an executeSQLQuery request.
type Builder interface {
	Build(sql string) ([]byte, error)
}

func NewBuilder(kind BodyKind, version string) (Builder, error) {
	switch kind {
	case BodyRaw:
		return &rawBuilder{
			tmpl:    fasttemplate.New(rawEnvelope, "{{", "}}"),
			version: version,
		}, nil
	case BodyXML, "":
		return &xmlBuilder{version: version}, nil
	default:
		return nil, fmt.Errorf("unknown axl body kind %q", kind)
	}
}

const rawEnvelope = `<soapenv:Envelope xmlns:soapenv="{{soap}}" xmlns:ns="{{axl}}">
  <soapenv:Header/>
  <soapenv:Body>
    <ns:executeSQLQuery sequence="1">
      <sql>{{sql}}</sql>
    </ns:executeSQLQuery>
  </soapenv:Body>
</soapenv:Envelope>
`

type rawBuilder struct {
	tmpl    *fasttemplate.Template
	version string
}

func (b *rawBuilder) Build(sql string) ([]byte, error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(sql)); err != nil {
		return nil, err
	}
	return []byte(b.tmpl.ExecuteString(map[string]interface{}{
		"soap": soapNamespace,
		"axl":  axlNamespace + b.version,
		"sql":  escaped.String(),
	})), nil
}

type envelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	SoapNS  string   `xml:"xmlns:soapenv,attr"`
	Header  struct{} `xml:"soapenv:Header"`
	Body    body     `xml:"soapenv:Body"`
}

type body struct {
	Query executeSQLQuery `xml:"ns:executeSQLQuery"`
}

type executeSQLQuery struct {
	AxlNS string `xml:"xmlns:ns,attr"`
	SQL   string `xml:"sql"`
}

type xmlBuilder struct {
	version string
}

func (b *xmlBuilder) Build(sql string) ([]byte, error) {
	env := envelope{
		SoapNS: soapNamespace,
		Body: body{
			Query: executeSQLQuery{
				AxlNS: axlNamespace + b.version,
				SQL:   sql,
			},
		},
	}
	out, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal soap envelope: %w", err)
	}
	return append(out, '\n'), nil
}
