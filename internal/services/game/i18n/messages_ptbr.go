package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.MustParse("pt-BR")

	message.SetString(lang, RoleKey("Vanilla"), "Comum")
	message.SetString(lang, RoleKey("Cop"), "Policial")
	message.SetString(lang, RoleKey("Doctor"), "Médico")
	message.SetString(lang, RoleKey("Roleblocker"), "Bloqueador")
	message.SetString(lang, RoleKey("Vigilante"), "Vigilante")
	message.SetString(lang, RoleKey("Tracker"), "Rastreador")
	message.SetString(lang, RoleKey("Watcher"), "Observador")
	message.SetString(lang, RoleKey("Bodyguard"), "Guarda-costas")
	message.SetString(lang, RoleKey("Bulletproof"), "À Prova de Balas")
	message.SetString(lang, RoleKey("Jailkeeper"), "Carcereiro")
	message.SetString(lang, RoleKey("Mason"), "Maçom")
	message.SetString(lang, RoleKey("Neapolitan"), "Napolitano")
	message.SetString(lang, RoleKey("Innocent Child"), "Criança Inocente")
	message.SetString(lang, RoleKey("Serial Killer"), "Assassino em Série")

	message.SetString(lang, AlignmentKey("town"), "Vila")
	message.SetString(lang, AlignmentKey("mafia"), "Máfia")
	message.SetString(lang, AlignmentKey("serialkiller"), "Assassino em Série")

	message.SetString(lang, AbilityNameKey("cop.investigate"), "Investigar")
	message.SetString(lang, AbilityDescriptionKey("cop.investigate"), "Descubra o alinhamento de um jogador.")
	message.SetString(lang, AbilityNameKey("doctor.protect"), "Proteger")
	message.SetString(lang, AbilityDescriptionKey("doctor.protect"), "Proteja um jogador de mortes esta noite.")
	message.SetString(lang, AbilityNameKey("roleblocker.block"), "Bloquear")
	message.SetString(lang, AbilityDescriptionKey("roleblocker.block"), "Anule as ações pendentes de um jogador esta noite.")
	message.SetString(lang, AbilityNameKey("vigilante.shoot"), "Atirar")
	message.SetString(lang, AbilityDescriptionKey("vigilante.shoot"), "Mate um jogador esta noite.")
	message.SetString(lang, AbilityNameKey("tracker.track"), "Rastrear")
	message.SetString(lang, AbilityDescriptionKey("tracker.track"), "Descubra quem um jogador visitou esta noite.")
	message.SetString(lang, AbilityNameKey("watcher.watch"), "Vigiar")
	message.SetString(lang, AbilityDescriptionKey("watcher.watch"), "Descubra quem visitou um jogador esta noite.")
	message.SetString(lang, AbilityNameKey("bodyguard.guard"), "Escoltar")
	message.SetString(lang, AbilityDescriptionKey("bodyguard.guard"), "Receba o primeiro ataque dirigido a um jogador esta noite.")
	message.SetString(lang, AbilityNameKey("jailkeeper.jail"), "Aprisionar")
	message.SetString(lang, AbilityDescriptionKey("jailkeeper.jail"), "Bloqueie e proteja um jogador esta noite.")
	message.SetString(lang, AbilityNameKey("neapolitan.see"), "Ver")
	message.SetString(lang, AbilityDescriptionKey("neapolitan.see"), "Descubra se um jogador é cidadão comum da vila.")
	message.SetString(lang, AbilityNameKey("child.reveal"), "Revelar")
	message.SetString(lang, AbilityDescriptionKey("child.reveal"), "Mostre seu papel a todos os jogadores vivos.")
	message.SetString(lang, AbilityNameKey("serialkiller.stab"), "Esfaquear")
	message.SetString(lang, AbilityDescriptionKey("serialkiller.stab"), "Mate um jogador esta noite.")
	message.SetString(lang, AbilityNameKey("mafia.kill"), "Ataque da Família")
	message.SetString(lang, AbilityDescriptionKey("mafia.kill"), "Mate um jogador esta noite em nome da família.")

	message.SetString(lang, ModifierKey("1-Shot"), "1 Uso")
	message.SetString(lang, ModifierKey("2-Shot"), "2 Usos")
	message.SetString(lang, ModifierKey("3-Shot"), "3 Usos")
	message.SetString(lang, ModifierKey("Non-Consecutive"), "Não Consecutivo")
	message.SetString(lang, ModifierKey("Night-1"), "Noite 1")
	message.SetString(lang, ModifierKey("Night-2"), "Noite 2")
	message.SetString(lang, ModifierKey("Personal"), "Pessoal")
	message.SetString(lang, ModifierKey("Weak"), "Fraco")
	message.SetString(lang, ModifierKey("Macho"), "Machão")
	message.SetString(lang, ModifierKey("Loyal"), "Leal")
	message.SetString(lang, ModifierKey("Disloyal"), "Desleal")
}
