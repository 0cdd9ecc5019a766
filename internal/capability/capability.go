// internal/capability/capability.go
package capability

import (
	"os"
	"strings"
)

// Name identifica um sinal de capacidade de hardware. O valor é também o nome
// da variável de ambiente lida pelo provider Env.
type Name string

const (
	VAAPISupported Name = "CAM_VAAPI_SUPPORTED"
	CUDASupported  Name = "CAM_CUDA_SUPPORTED"
	RaspberryPi3   Name = "CAM_RASPBERRYPI3"
)

// All lista os sinais conhecidos, na ordem usada em logs.
var All = []Name{VAAPISupported, CUDASupported, RaspberryPi3}

// Provider responde se um sinal está ativo no host.
type Provider interface {
	Enabled(name Name) bool
}

// Env lê os sinais de variáveis de ambiente. Só o valor exato "true" ativa.
type Env struct {
	// Lookup substitui os.LookupEnv (nil = os.LookupEnv).
	Lookup func(key string) (string, bool)
}

func (e Env) Enabled(name Name) bool {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(string(name))
	return ok && v == "true"
}

// Static é um conjunto fixo de sinais ativos, usado em testes e pelo
// checker quando as capacidades vêm de flags.
type Static map[Name]bool

func (s Static) Enabled(name Name) bool {
	return s[name]
}

// Describe devolve "NOME=on/off" para cada sinal conhecido.
func Describe(p Provider) string {
	parts := make([]string, 0, len(All))
	for _, n := range All {
		state := "off"
		if p.Enabled(n) {
			state = "on"
		}
		parts = append(parts, string(n)+"="+state)
	}
	return strings.Join(parts, " ")
}
