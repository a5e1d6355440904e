package proto

import (
	"google.golang.org/protobuf/encoding/protowire"
)

type RegisterRequest struct {
	User string
	Y1   []byte
	Y2   []byte
}

func (m *RegisterRequest) GetUser() string {
	if m != nil {
		return m.User
	}
	return ""
}

func (m *RegisterRequest) MarshalWire() ([]byte, error) {
	var b []byte
	b = AppendString(b, 1, m.User)
	b = AppendBytes(b, 2, m.Y1)
	b = AppendBytes(b, 3, m.Y2)
	return b, nil
}

func (m *RegisterRequest) UnmarshalWire(b []byte) error {
	*m = RegisterRequest{}
	return ConsumeFields(b, func(num protowire.Number, v []byte) error {
		switch num {
		case 1:
			m.User = string(v)
		case 2:
			m.Y1 = cloneBytes(v)
		case 3:
			m.Y2 = cloneBytes(v)
		}
		return nil
	})
}

type RegisterResponse struct{}

func (m *RegisterResponse) MarshalWire() ([]byte, error) { return nil, nil }

func (m *RegisterResponse) UnmarshalWire(b []byte) error {
	return ConsumeFields(b, func(protowire.Number, []byte) error { return nil })
}

type AuthenticationChallengeRequest struct {
	User string
	R1   []byte
	R2   []byte
}

func (m *AuthenticationChallengeRequest) GetUser() string {
	if m != nil {
		return m.User
	}
	return ""
}

func (m *AuthenticationChallengeRequest) MarshalWire() ([]byte, error) {
	var b []byte
	b = AppendString(b, 1, m.User)
	b = AppendBytes(b, 2, m.R1)
	b = AppendBytes(b, 3, m.R2)
	return b, nil
}

func (m *AuthenticationChallengeRequest) UnmarshalWire(b []byte) error {
	*m = AuthenticationChallengeRequest{}
	return ConsumeFields(b, func(num protowire.Number, v []byte) error {
		switch num {
		case 1:
			m.User = string(v)
		case 2:
			m.R1 = cloneBytes(v)
		case 3:
			m.R2 = cloneBytes(v)
		}
		return nil
	})
}

type AuthenticationChallengeResponse struct {
	AuthId string
	C      []byte
}

func (m *AuthenticationChallengeResponse) GetAuthId() string {
	if m != nil {
		return m.AuthId
	}
	return ""
}

func (m *AuthenticationChallengeResponse) MarshalWire() ([]byte, error) {
	var b []byte
	b = AppendString(b, 1, m.AuthId)
	b = AppendBytes(b, 2, m.C)
	return b, nil
}

func (m *AuthenticationChallengeResponse) UnmarshalWire(b []byte) error {
	*m = AuthenticationChallengeResponse{}
	return ConsumeFields(b, func(num protowire.Number, v []byte) error {
		switch num {
		case 1:
			m.AuthId = string(v)
		case 2:
			m.C = cloneBytes(v)
		}
		return nil
	})
}

type AuthenticationAnswerRequest struct {
	AuthId string
	S      []byte
}

func (m *AuthenticationAnswerRequest) GetAuthId() string {
	if m != nil {
		return m.AuthId
	}
	return ""
}

func (m *AuthenticationAnswerRequest) MarshalWire() ([]byte, error) {
	var b []byte
	b = AppendString(b, 1, m.AuthId)
	b = AppendBytes(b, 2, m.S)
	return b, nil
}

func (m *AuthenticationAnswerRequest) UnmarshalWire(b []byte) error {
	*m = AuthenticationAnswerRequest{}
	return ConsumeFields(b, func(num protowire.Number, v []byte) error {
		switch num {
		case 1:
			m.AuthId = string(v)
		case 2:
			m.S = cloneBytes(v)
		}
		return nil
	})
}

type AuthenticationAnswerResponse struct {
	SessionId   string
	AccessToken string
}

func (m *AuthenticationAnswerResponse) GetSessionId() string {
	if m != nil {
		return m.SessionId
	}
	return ""
}

func (m *AuthenticationAnswerResponse) MarshalWire() ([]byte, error) {
	var b []byte
	b = AppendString(b, 1, m.SessionId)
	b = AppendString(b, 2, m.AccessToken)
	return b, nil
}

func (m *AuthenticationAnswerResponse) UnmarshalWire(b []byte) error {
	*m = AuthenticationAnswerResponse{}
	return ConsumeFields(b, func(num protowire.Number, v []byte) error {
		switch num {
		case 1:
			m.SessionId = string(v)
		case 2:
			m.AccessToken = string(v)
		}
		return nil
	})
}

type PingRequest struct{}

func (m *PingRequest) MarshalWire() ([]byte, error) { return nil, nil }

func (m *PingRequest) UnmarshalWire(b []byte) error {
	return ConsumeFields(b, func(protowire.Number, []byte) error { return nil })
}

type PingResponse struct {
	Status string
}

func (m *PingResponse) MarshalWire() ([]byte, error) {
	return AppendString(nil, 1, m.Status), nil
}

func (m *PingResponse) UnmarshalWire(b []byte) error {
	*m = PingResponse{}
	return ConsumeFields(b, func(num protowire.Number, v []byte) error {
		if num == 1 {
			m.Status = string(v)
		}
		return nil
	})
}

type WhoamiRequest struct{}

func (m *WhoamiRequest) MarshalWire() ([]byte, error) { return nil, nil }

func (m *WhoamiRequest) UnmarshalWire(b []byte) error {
	return ConsumeFields(b, func(protowire.Number, []byte) error { return nil })
}

type WhoamiResponse struct {
	User      string
	SessionId string
}

func (m *WhoamiResponse) MarshalWire() ([]byte, error) {
	var b []byte
	b = AppendString(b, 1, m.User)
	b = AppendString(b, 2, m.SessionId)
	return b, nil
}

func (m *WhoamiResponse) UnmarshalWire(b []byte) error {
	*m = WhoamiResponse{}
	return ConsumeFields(b, func(num protowire.Number, v []byte) error {
		switch num {
		case 1:
			m.User = string(v)
		case 2:
			m.SessionId = string(v)
		}
		return nil
	})
}
