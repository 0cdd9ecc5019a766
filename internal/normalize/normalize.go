// internal/normalize/normalize.go
package normalize

import (
	"log"
	"regexp"

	"github.com/sua-org/cam-config/internal/core"
	"github.com/sua-org/cam-config/internal/resolver"
	"github.com/sua-org/cam-config/internal/schema"
)

// MQTTNamePattern é o charset aceito para mqtt_name (vira pedaço de tópico).
var MQTTNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

const mqttNameCharset = "[a-zA-Z0-9_.]"

type Normalizer struct {
	resolver *resolver.Resolver
}

func New(r *resolver.Resolver) *Normalizer {
	return &Normalizer{resolver: r}
}

// Normalize aplica, nesta ordem: resolução do codec e derivação/validação do
// mqtt_name. O mqtt_name fica por último para o erro refletir o entry final.
// Rodar de novo num entry já normalizado não muda nada.
func (n *Normalizer) Normalize(e *core.CameraEntry) error {
	e.Codec = n.resolver.Codec(e.StreamFormat, e.Codec)

	if e.MQTTName == "" {
		e.MQTTName = Slugify(e.Name)
	}
	if !MQTTNamePattern.MatchString(e.MQTTName) {
		return &schema.PatternError{
			Camera:  e.Name,
			Path:    "mqtt_name",
			Pattern: mqttNameCharset,
			Value:   e.MQTTName,
		}
	}

	// só um dos dois: a URL sai sem credenciais
	if (e.Username == "") != (e.Password == "") {
		log.Printf("[normalize] aviso: camera %s tem só username ou só password; stream_url vai sem credenciais", e.Name)
	}
	return nil
}
