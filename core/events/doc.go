// Package events defines the typed event contract emitted by the orchestrator
// to its UI.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - user_input.*
//   - turn_state.*
//   - assistant_response.*
//   - assistant_speech.*
//   - assistant_playback.*
//
// Semantics used across the package:
//
//   - Updated: mutable point-in-time snapshot that can change over time.
//   - Final: terminal immutable text/state for the current session/turn phase.
//   - Changed: new value of a piece of state, sent only when it differs.
//
// user_input events
//
//   - UserListeningChanged (user_input.listening_changed): recognition session
//     entered or left the listening state.
//   - UserTranscriptInterimUpdated (user_input.transcript_interim_updated):
//     live caption snapshot, cleared with an empty transcript.
//   - UserTranscriptFinal (user_input.transcript_final): trimmed final text of
//     the recognition session, possibly empty.
//   - UserInputFailed (user_input.failed): recognition error slot changed.
//
// turn_state events
//
//   - TurnCommitted (turn_state.committed): a turn was appended to the
//     transcript.
//   - TurnStarted (turn_state.started): round trip for a user turn started.
//   - TurnCompleted (turn_state.completed): round trip produced a reply.
//   - TurnFailed (turn_state.failed): completion failed and a degraded reply
//     was appended.
//   - TranscriptCleared (turn_state.transcript_cleared): transcript was reset.
//   - IndicatorsChanged (turn_state.indicators_changed): thinking or speaking
//     indicator changed.
//
// assistant_response events
//
//   - AssistantResponseFinal (assistant_response.final): reply text received.
//
// assistant_speech events
//
//   - AssistantSpeechFinal (assistant_speech.final): reply was synthesized and
//     its playback started.
//   - AssistantSpeechFailed (assistant_speech.failed): synthesis failed, the
//     reply stays text only.
//
// assistant_playback events
//
//   - AssistantPlaybackEnded (assistant_playback.ended): playback ended and
//     the audio resource was released.
package events
