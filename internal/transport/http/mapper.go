package http

import (
	"github.com/okunev/pingchat-server/internal/core"
	"github.com/okunev/pingchat-server/internal/proto"
)

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventPresence:
		entries := make([]proto.PresenceEntry, 0, len(event.Presence))
		for _, entry := range event.Presence {
			entries = append(entries, proto.PresenceEntry{
				UserID: entry.UserID,
				ConnID: entry.ConnID,
			})
		}
		return proto.Outbound{
			Type: proto.OutboundTypeGetUsers,
			Data: entries,
		}

	case core.EventDirectMessage:
		env := event.Envelope
		return proto.Outbound{
			Type: proto.OutboundTypeGetMessage,
			Data: proto.EventMessage{
				ID:       env.MessageID,
				Sender:   profileToProto(env.Sender),
				Receiver: profileToProto(env.Receiver),
				Message:  env.Body,
				SentAt:   env.SentAt.Unix(),
			},
		}

	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}

	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}

func profileToProto(p core.Profile) proto.UserProfile {
	return proto.UserProfile{
		ID:       p.ID,
		FullName: p.FullName,
		Email:    p.Email,
	}
}
