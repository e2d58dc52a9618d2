package i18n

// messagesPtBR overlays the base locale for Brazilian Portuguese.
var messagesPtBR = map[Code]string{
	CodeGameAlreadyExists:        "este jogo já existe",
	CodeGameNoPlayers:            "um jogo precisa de pelo menos um jogador",
	CodeGameDuplicatePlayer:      "o jogador {{.Player}} aparece mais de uma vez",
	CodeGamePlayerNameEmpty:      "todo jogador precisa de um nome",
	CodeGameReservedPlayerName:   "{{.Player}} é um nome reservado",
	CodeGameUnknownRole:          "papel desconhecido {{.Role}}",
	CodeGameUnknownAlignment:     "alinhamento desconhecido {{.Alignment}}",
	CodeGameUnknownModifier:      "modificador desconhecido {{.Modifier}}",
	CodeGameInvalidStartPhase:    "jogos não podem começar na fase {{.Phase}}",
	CodeGameInvalidCategoryOrder: "a ordem de categorias deve listar cada categoria exatamente uma vez",
	CodeGameAlreadyResolved:      "este jogo já foi resolvido",
	CodeIllegalPhaseTransition:   "a fase não pode mudar a partir de {{.Phase}}",
	CodeUnknownAbility:           "habilidade desconhecida {{.Ability}}",
	CodeUnknownPlayer:            "jogador desconhecido {{.Player}}",
	CodeInvalidTarget:            "{{.Target}} não é um alvo válido",
	CodeInvalidTargetCount:       "esta habilidade precisa de {{.Want}} alvo(s), recebeu {{.Got}}",
	CodeIneligibleNow:            "esta habilidade não pode ser usada agora",
	CodeUnknownChat:              "conversa desconhecida {{.Chat}}",
	CodeChatNotReadable:          "você não pode ler esta conversa",
	CodeChatNotWritable:          "você não pode escrever nesta conversa",
	CodeChatBodyEmpty:            "mensagens não podem ser vazias",
	CodeSeatGrantInvalid:         "o convite de assento é inválido",
	CodeSeatGrantExpired:         "o convite de assento expirou",
	CodeSeatGrantMismatch:        "o convite de assento não corresponde a este assento",
	CodeNotAuthorized:            "você não tem permissão para isso",
	CodeNotFound:                 "não encontrado",
}
