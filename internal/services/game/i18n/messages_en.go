package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, RoleKey("Vanilla"), "Vanilla")
	message.SetString(lang, RoleKey("Cop"), "Cop")
	message.SetString(lang, RoleKey("Doctor"), "Doctor")
	message.SetString(lang, RoleKey("Roleblocker"), "Roleblocker")
	message.SetString(lang, RoleKey("Vigilante"), "Vigilante")
	message.SetString(lang, RoleKey("Tracker"), "Tracker")
	message.SetString(lang, RoleKey("Watcher"), "Watcher")
	message.SetString(lang, RoleKey("Bodyguard"), "Bodyguard")
	message.SetString(lang, RoleKey("Bulletproof"), "Bulletproof")
	message.SetString(lang, RoleKey("Jailkeeper"), "Jailkeeper")
	message.SetString(lang, RoleKey("Mason"), "Mason")
	message.SetString(lang, RoleKey("Neapolitan"), "Neapolitan")
	message.SetString(lang, RoleKey("Innocent Child"), "Innocent Child")
	message.SetString(lang, RoleKey("Serial Killer"), "Serial Killer")

	message.SetString(lang, AlignmentKey("town"), "Town")
	message.SetString(lang, AlignmentKey("mafia"), "Mafia")
	message.SetString(lang, AlignmentKey("serialkiller"), "Serial Killer")

	message.SetString(lang, AbilityNameKey("cop.investigate"), "Investigate")
	message.SetString(lang, AbilityDescriptionKey("cop.investigate"), "Learn a player's alignment.")
	message.SetString(lang, AbilityNameKey("doctor.protect"), "Protect")
	message.SetString(lang, AbilityDescriptionKey("doctor.protect"), "Shield a player from kills tonight.")
	message.SetString(lang, AbilityNameKey("roleblocker.block"), "Block")
	message.SetString(lang, AbilityDescriptionKey("roleblocker.block"), "Void a player's pending actions tonight.")
	message.SetString(lang, AbilityNameKey("vigilante.shoot"), "Shoot")
	message.SetString(lang, AbilityDescriptionKey("vigilante.shoot"), "Kill a player tonight.")
	message.SetString(lang, AbilityNameKey("tracker.track"), "Track")
	message.SetString(lang, AbilityDescriptionKey("tracker.track"), "Learn who a player visited tonight.")
	message.SetString(lang, AbilityNameKey("watcher.watch"), "Watch")
	message.SetString(lang, AbilityDescriptionKey("watcher.watch"), "Learn who visited a player tonight.")
	message.SetString(lang, AbilityNameKey("bodyguard.guard"), "Guard")
	message.SetString(lang, AbilityDescriptionKey("bodyguard.guard"), "Take the first kill aimed at a player tonight.")
	message.SetString(lang, AbilityNameKey("jailkeeper.jail"), "Jail")
	message.SetString(lang, AbilityDescriptionKey("jailkeeper.jail"), "Block and protect a player tonight.")
	message.SetString(lang, AbilityNameKey("neapolitan.see"), "See")
	message.SetString(lang, AbilityDescriptionKey("neapolitan.see"), "Learn whether a player is vanilla town.")
	message.SetString(lang, AbilityNameKey("child.reveal"), "Reveal")
	message.SetString(lang, AbilityDescriptionKey("child.reveal"), "Show your role to every living player.")
	message.SetString(lang, AbilityNameKey("serialkiller.stab"), "Stab")
	message.SetString(lang, AbilityDescriptionKey("serialkiller.stab"), "Kill a player tonight.")
	message.SetString(lang, AbilityNameKey("mafia.kill"), "Factional Kill")
	message.SetString(lang, AbilityDescriptionKey("mafia.kill"), "Kill a player tonight on the family's behalf.")

	message.SetString(lang, ModifierKey("1-Shot"), "1-Shot")
	message.SetString(lang, ModifierKey("2-Shot"), "2-Shot")
	message.SetString(lang, ModifierKey("3-Shot"), "3-Shot")
	message.SetString(lang, ModifierKey("Non-Consecutive"), "Non-Consecutive")
	message.SetString(lang, ModifierKey("Night-1"), "Night-1")
	message.SetString(lang, ModifierKey("Night-2"), "Night-2")
	message.SetString(lang, ModifierKey("Personal"), "Personal")
	message.SetString(lang, ModifierKey("Weak"), "Weak")
	message.SetString(lang, ModifierKey("Macho"), "Macho")
	message.SetString(lang, ModifierKey("Loyal"), "Loyal")
	message.SetString(lang, ModifierKey("Disloyal"), "Disloyal")
}
