package dashboard

// messages.go maps technical errors to what the dashboard tells the user.
//
//	DATA001 - No data: no candidate file was found or every one failed
//	DATA002 - Invalid columns: the file lacks Projeto, Progresso or Status
//	REQ001  - Request cancelled or timed out
//	RATE001 - Too many requests
//	ERR000  - Anything else; check the server log for the request id

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cgdin/painel/internal/report"
	"github.com/cgdin/painel/internal/source"
)

// UserMessage is a user-facing error with a suggested action.
type UserMessage struct {
	Message string
	Action  string
	Code    string
	// Details lists per-source failures, when known.
	Details []string
}

// MapError converts err to a UserMessage. Candidate names, when given, are
// used to tell the user which files were looked for.
func MapError(err error, candidates []source.Candidate) UserMessage {
	var noData *source.NoDataError
	switch {
	case errors.As(err, &noData):
		msg := UserMessage{
			Message: fmt.Sprintf("Nenhum ficheiro de dados encontrado (%s).", joinNames(candidates)),
			Action:  "Certifica-te de que o ficheiro está na mesma pasta que o painel e contém as colunas Projeto, Progresso e Status.",
			Code:    "DATA001",
		}
		for _, a := range noData.Attempts {
			msg.Details = append(msg.Details, fmt.Sprintf("%s: %v", a.Candidate.Name, a.Err))
			if errors.Is(a.Err, report.ErrSchema) {
				msg.Code = "DATA002"
			}
		}
		return msg

	case errors.Is(err, report.ErrSchema):
		return UserMessage{
			Message: "O ficheiro de dados não tem as colunas esperadas.",
			Action:  "Verifica os cabeçalhos Projeto, Progresso e Status.",
			Code:    "DATA002",
		}

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return UserMessage{
			Message: "O pedido foi cancelado ou expirou.",
			Action:  "Tenta novamente.",
			Code:    "REQ001",
		}

	case err != nil && strings.Contains(strings.ToLower(err.Error()), "rate limit"):
		return UserMessage{
			Message: "Demasiados pedidos.",
			Action:  "Aguarda um momento antes de tentar novamente.",
			Code:    "RATE001",
		}
	}

	return UserMessage{
		Message: "Ocorreu um erro inesperado.",
		Action:  "Tenta novamente ou contacta o suporte.",
		Code:    "ERR000",
	}
}

// joinNames renders "a, b ou c".
func joinNames(candidates []source.Candidate) string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	switch len(names) {
	case 0:
		return "nenhuma fonte configurada"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " ou " + names[len(names)-1]
}
