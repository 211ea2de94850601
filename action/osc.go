package action

import (
	"math"

	"github.com/hypebeast/go-osc/osc"
	lua "github.com/yuin/gopher-lua"
)

// Sender delivers OSC messages to a host.
type Sender interface {
	Send(host string, port int, msg *osc.Message) error
}

type udpSender struct{}

func (udpSender) Send(host string, port int, msg *osc.Message) error {
	return osc.NewClient(host, port).Send(msg)
}

// oscLoader builds the "osc" module:
//
//	osc.send(host, port, address, ...)
//
// Integral numbers travel as int32, other numbers as float32.
func oscLoader(sender Sender) lua.LGFunction {
	return func(L *lua.LState) int {
		mod := L.NewTable()
		L.SetField(mod, "send", L.NewFunction(func(L *lua.LState) int {
			host := L.CheckString(1)
			port := L.CheckInt(2)
			msg := osc.NewMessage(L.CheckString(3))

			for i := 4; i <= L.GetTop(); i++ {
				switch v := L.Get(i).(type) {
				case lua.LNumber:
					n := float64(v)
					if n == math.Trunc(n) && math.Abs(n) <= math.MaxInt32 {
						msg.Append(int32(n))
					} else {
						msg.Append(float32(n))
					}
				case lua.LBool:
					msg.Append(bool(v))
				default:
					msg.Append(v.String())
				}
			}

			if err := sender.Send(host, port, msg); err != nil {
				L.RaiseError("osc.send %s: %s", msg.Address, err)
			}
			return 0
		}))
		L.Push(mod)
		return 1
	}
}
